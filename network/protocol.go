package network

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/wormserver/assets"
	"github.com/wfunc/wormserver/player"
)

// Wire message type discriminators, client and server side.
const (
	MsgTypeUpdate        = "update"
	MsgTypeReady         = "ready"
	MsgTypeCreateServer  = "createServer"
	MsgTypeAddPlayer     = "addPlayer"
	MsgTypeRemovePlayer  = "removePlayer"
	MsgTypeStartServer   = "startServer"
	MsgTypeDestroyServer = "destroyServer"

	MsgTypeServersInfo = "serversInfo"
	MsgTypeInit        = "init"
	MsgTypeDisconnect  = "disconnect"
)

// ErrUnknownType is returned for a message whose type discriminator is not
// part of the protocol. The dispatcher drops such messages.
var ErrUnknownType = fmt.Errorf("unknown message type")

// ClientMessage is the closed set of inbound message variants. Decode returns
// exactly one of the structs below, so the dispatcher's type switch covers
// every case the protocol defines.
type ClientMessage interface {
	clientMessage()
}

type Update struct {
	ServerID string
	Player   string
	Stats    player.Patch
}

type Ready struct {
	ServerID string
	Player   string
}

type CreateServer struct {
	Name string
	Map  string
}

type AddPlayer struct {
	ServerID string
	Player   string
}

type RemovePlayer struct {
	ServerID string
	Player   string
}

type StartServer struct {
	ServerID string
	Player   string
}

type DestroyServer struct {
	ServerID string
}

func (Update) clientMessage()        {}
func (Ready) clientMessage()         {}
func (CreateServer) clientMessage()  {}
func (AddPlayer) clientMessage()     {}
func (RemovePlayer) clientMessage()  {}
func (StartServer) clientMessage()   {}
func (DestroyServer) clientMessage() {}

// envelope mirrors the raw JSON shape the original clients send. destroyServer
// carries its target under the legacy field name "GameServerId".
type envelope struct {
	Type         string        `json:"type"`
	ServerID     string        `json:"serverId"`
	Player       string        `json:"player"`
	Stats        *player.Patch `json:"stats"`
	Params       *createParams `json:"params"`
	GameServerID string        `json:"GameServerId"`
}

type createParams struct {
	Name string `json:"name"`
	Map  string `json:"map"`
}

// DecodeClientMessage parses one inbound JSON message into its variant.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch env.Type {
	case MsgTypeUpdate:
		var stats player.Patch
		if env.Stats != nil {
			stats = *env.Stats
		}
		return &Update{ServerID: env.ServerID, Player: env.Player, Stats: stats}, nil
	case MsgTypeReady:
		return &Ready{ServerID: env.ServerID, Player: env.Player}, nil
	case MsgTypeCreateServer:
		msg := &CreateServer{}
		if env.Params != nil {
			msg.Name = env.Params.Name
			msg.Map = env.Params.Map
		}
		return msg, nil
	case MsgTypeAddPlayer:
		return &AddPlayer{ServerID: env.ServerID, Player: env.Player}, nil
	case MsgTypeRemovePlayer:
		return &RemovePlayer{ServerID: env.ServerID, Player: env.Player}, nil
	case MsgTypeStartServer:
		return &StartServer{ServerID: env.ServerID, Player: env.Player}, nil
	case MsgTypeDestroyServer:
		return &DestroyServer{ServerID: env.GameServerID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// RoomInfo is one entry of the lobby directory snapshot.
type RoomInfo struct {
	Name    string         `json:"name"`
	ID      string         `json:"id"`
	Online  int            `json:"online"`
	Map     string         `json:"map"`
	Players []player.Entry `json:"players"`
	Active  bool           `json:"active"`
}

type serversInfoMessage struct {
	Type    string     `json:"type"`
	Payload []RoomInfo `json:"payload"`
}

type initMessage struct {
	Type        string         `json:"type"`
	Payload     []player.Entry `json:"payload"`
	CurrentMap  assets.Map     `json:"currentMap"`
	CurrentSkin assets.Skin    `json:"currentSkin"`
}

type updateMessage struct {
	Type    string         `json:"type"`
	Payload []player.Entry `json:"payload"`
}

type disconnectMessage struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func EncodeServersInfo(rooms []RoomInfo) ([]byte, error) {
	return json.Marshal(serversInfoMessage{Type: MsgTypeServersInfo, Payload: rooms})
}

func EncodeInit(players []player.Entry, m assets.Map, s assets.Skin) ([]byte, error) {
	return json.Marshal(initMessage{Type: MsgTypeInit, Payload: players, CurrentMap: m, CurrentSkin: s})
}

func EncodeUpdate(players []player.Entry) ([]byte, error) {
	return json.Marshal(updateMessage{Type: MsgTypeUpdate, Payload: players})
}

func EncodeDisconnect(playerID string) ([]byte, error) {
	return json.Marshal(disconnectMessage{Type: MsgTypeDisconnect, Payload: playerID})
}
