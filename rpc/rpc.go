package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/wormserver/logger"
	"github.com/wfunc/wormserver/network"
	"github.com/wfunc/wormserver/room"
)

// Server manages the RPC listener for the ops-side admin service.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes directory inspection and out-of-band room teardown
// over net/rpc. Methods follow the net/rpc signature rules.
type AdminService struct {
	directory *room.Directory
}

func NewAdminService(directory *room.Directory) *AdminService {
	return &AdminService{directory: directory}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []network.RoomInfo
}

// ListRooms returns the same snapshot the lobby sees.
func (s *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Rooms = s.directory.Describe()
	return nil
}

type DestroyRoomArgs struct {
	RoomID string
}

type DestroyRoomReply struct {
	Removed bool
}

// DestroyRoom removes a room by id, same effect as the destroyServer message.
func (s *AdminService) DestroyRoom(args *DestroyRoomArgs, reply *DestroyRoomReply) error {
	reply.Removed = s.directory.RemoveRoom(args.RoomID)
	return nil
}
