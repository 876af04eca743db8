package broadcast

import (
	"github.com/wfunc/wormserver/logger"
	"github.com/wfunc/wormserver/network"
	"github.com/wfunc/wormserver/room"
	"github.com/wfunc/wormserver/session"
)

// Broadcaster 大厅级广播接口
type Broadcaster interface {
	// BroadcastDirectory 把最新的目录快照发给每一条在线连接，
	// 房间成员变化后调用，保证所有大厅视图一致。
	BroadcastDirectory()
}

// LobbyBroadcaster 基于会话管理器的实现
type LobbyBroadcaster struct {
	directory *room.Directory
	sessions  *session.Manager
}

func NewLobbyBroadcaster(directory *room.Directory, sessions *session.Manager) *LobbyBroadcaster {
	return &LobbyBroadcaster{
		directory: directory,
		sessions:  sessions,
	}
}

func (b *LobbyBroadcaster) BroadcastDirectory() {
	data, err := network.EncodeServersInfo(b.directory.Describe())
	if err != nil {
		logger.Log.Errorf("encode directory snapshot: %v", err)
		return
	}
	for _, sess := range b.sessions.All() {
		if err := sess.Send(data); err != nil {
			logger.Log.Warnf("send directory snapshot to %s: %v", sess.GetID(), err)
		}
	}
}
