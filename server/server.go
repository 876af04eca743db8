package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/wormserver/broadcast"
	"github.com/wfunc/wormserver/logger"
	"github.com/wfunc/wormserver/monitor"
	"github.com/wfunc/wormserver/network"
	"github.com/wfunc/wormserver/room"
	adminrpc "github.com/wfunc/wormserver/rpc"
	"github.com/wfunc/wormserver/session"
)

// GameServer 接入层：每条 WebSocket 连接一个读循环，解码后的
// 消息分发到目录与房间操作。出错一律丢弃并记录，绝不中断进程，
// 也不回发错误（与线上客户端的约定一致）。
type GameServer struct {
	addr         string
	upgrader     websocket.Upgrader
	directory    *room.Directory
	sessions     *session.Manager
	broadcaster  broadcast.Broadcaster
	mon          *monitor.Monitor
	rpcServer    *adminrpc.Server
	shutdownChan chan struct{}
}

func NewGameServer(addr, rpcAddr string, directory *room.Directory, sessions *session.Manager, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:         addr,
		directory:    directory,
		sessions:     sessions,
		mon:          mon,
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewLobbyBroadcaster(directory, sessions)

	if rpcAddr != "" {
		rpcServer, err := adminrpc.NewServer(rpcAddr)
		if err != nil {
			logger.Log.Fatalf("Failed to create RPC server: %v", err)
		}
		s.rpcServer = rpcServer
		rpc.Register(adminrpc.NewAdminService(directory))
	}

	return s
}

func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(network.NewWSConnection(conn))
}

func (s *GameServer) handleConnection(conn network.Connection) {
	sess := session.NewSession(uuid.New().String(), conn)
	s.sessions.Add(sess)
	if s.mon != nil {
		s.mon.IncConnections()
	}
	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed, session ID: %s", sess.GetID())
		s.teardown(sess)
		conn.Close()
	}()

	// 新连接先收到一份完整的目录快照
	if data, err := network.EncodeServersInfo(s.directory.Describe()); err == nil {
		if err := sess.Send(data); err != nil {
			return
		}
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.dispatch(sess, data)
		}
	}
}

// teardown 连接关闭的唯一清理路径：注销会话，把玩家移出所在
// 房间，并向全体连接重播目录快照
func (s *GameServer) teardown(sess *session.Session) {
	s.sessions.Remove(sess.GetID())
	if s.mon != nil {
		s.mon.DecConnections()
	}

	roomID := sess.RoomID()
	if roomID == "" {
		return
	}
	if r, exists := s.directory.GetRoom(roomID); exists {
		r.DropPlayer(sess.PlayerID())
		s.broadcaster.BroadcastDirectory()
	}
}

func (s *GameServer) dispatch(sess *session.Session, data []byte) {
	start := time.Now()
	if s.mon != nil {
		s.mon.IncMessagesReceived()
		defer func() {
			s.mon.ObserveDispatchLatency(time.Since(start))
		}()
	}

	msg, err := network.DecodeClientMessage(data)
	if err != nil {
		s.drop("decode: %v", err)
		return
	}

	switch m := msg.(type) {
	case *network.Update:
		// 旧版客户端不带路由字段，退回会话绑定
		roomID, playerID := sessionDefaults(sess, m.ServerID, m.Player)
		r, exists := s.lookupRoom(roomID)
		if !exists {
			return
		}
		if err := r.Update(playerID, m.Stats); err != nil {
			s.drop("room %s: update %s: %v", roomID, playerID, err)
		}

	case *network.Ready:
		roomID, playerID := sessionDefaults(sess, m.ServerID, m.Player)
		r, exists := s.lookupRoom(roomID)
		if !exists {
			return
		}
		if err := r.SetReady(playerID); err != nil {
			s.drop("room %s: ready %s: %v", roomID, playerID, err)
		}

	case *network.CreateServer:
		r := s.directory.CreateRoom(m.Name, m.Map)
		logger.Log.Infof("Session %s created room %s (%s)", sess.GetID(), r.ID, r.Name)
		if s.mon != nil {
			s.mon.SetRooms(s.directory.Count())
		}

	case *network.AddPlayer:
		r, exists := s.lookupRoom(m.ServerID)
		if !exists {
			return
		}
		id, err := r.AddPlayer(m.Player, sess)
		if err != nil {
			s.drop("room %s: add player %s: %v", m.ServerID, m.Player, err)
			return
		}
		logger.Log.Infof("Player %s joined room %s", id, r.ID)
		s.broadcaster.BroadcastDirectory()

	case *network.RemovePlayer:
		r, exists := s.lookupRoom(m.ServerID)
		if !exists {
			return
		}
		r.DropPlayer(m.Player)
		s.broadcaster.BroadcastDirectory()

	case *network.StartServer:
		r, exists := s.lookupRoom(m.ServerID)
		if !exists {
			return
		}
		// 首次 startServer 激活房间；已激活时等价于补发 init 的 join
		if r.Active() {
			if err := r.Join(m.Player); err != nil {
				s.drop("room %s: join %s: %v", m.ServerID, m.Player, err)
			}
		} else {
			if err := r.Start(); err != nil {
				s.drop("room %s: start: %v", m.ServerID, err)
			}
		}
		s.broadcaster.BroadcastDirectory()
		r.StartUpdates()

	case *network.DestroyServer:
		if removed := s.directory.RemoveRoom(m.ServerID); removed {
			logger.Log.Infof("Room %s destroyed", m.ServerID)
		}
		if s.mon != nil {
			s.mon.SetRooms(s.directory.Count())
		}
	}
}

func sessionDefaults(sess *session.Session, roomID, playerID string) (string, string) {
	if roomID == "" {
		roomID = sess.RoomID()
	}
	if playerID == "" {
		playerID = sess.PlayerID()
	}
	return roomID, playerID
}

func (s *GameServer) lookupRoom(id string) (*room.Room, bool) {
	r, exists := s.directory.GetRoom(id)
	if !exists {
		s.drop("unknown room %q", id)
		return nil, false
	}
	return r, true
}

// drop 静默丢弃策略：记 warn 日志、计数，不回发客户端
func (s *GameServer) drop(format string, args ...interface{}) {
	logger.Log.Warnf(format, args...)
	if s.mon != nil {
		s.mon.IncMessagesDropped()
	}
}
