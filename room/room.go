package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/wormserver/assets"
	"github.com/wfunc/wormserver/logger"
	"github.com/wfunc/wormserver/network"
	"github.com/wfunc/wormserver/player"
	"github.com/wfunc/wormserver/session"
	"github.com/wfunc/wormserver/state"
)

var (
	// ErrNotActive 房间尚未开始时 join 无效
	ErrNotActive = errors.New("room is not active")
	// ErrUnknownPlayer 目标玩家不在本房间的连接表里
	ErrUnknownPlayer = errors.New("player has no connection in room")
)

// Room 一局游戏：权威玩家状态、连接表与广播定时器。所有变更
// 都在 mutex 内完成，广播的一次 List 快照不会观察到半移除的玩家。
type Room struct {
	ID    string
	Name  string
	MapID string

	mutex    sync.Mutex
	players  *player.Registry
	conns    map[string]*session.Session
	machine  *state.Machine
	sched    Scheduler
	tick     time.Duration
	timerID  int64
	mapMeta  assets.Map
	skinMeta assets.Skin
}

func NewRoom(id, name, mapID string, mapMeta assets.Map, skinMeta assets.Skin, sched Scheduler, tick time.Duration, spawnMax int) *Room {
	return &Room{
		ID:       id,
		Name:     name,
		MapID:    mapID,
		players:  player.NewRegistry(spawnMax),
		conns:    make(map[string]*session.Session),
		machine:  state.NewRoomMachine(),
		sched:    sched,
		tick:     tick,
		mapMeta:  mapMeta,
		skinMeta: skinMeta,
	}
}

// AddPlayer 注册玩家并记下其连接。重复的 key 拒绝，静默覆盖会让
// 已在线客户端的本地视图失联。返回最终的玩家 key。
func (r *Room) AddPlayer(playerID string, sess *session.Session) (string, error) {
	r.mutex.Lock()
	id, err := r.players.Create(playerID, "")
	if err != nil {
		r.mutex.Unlock()
		return "", err
	}
	r.conns[id] = sess
	r.mutex.Unlock()

	sess.Bind(r.ID, id)
	return id, nil
}

// DropPlayer 唯一的移除路径：显式 removePlayer 与传输层断开共用。
// 幂等；移除后向房间内其余连接广播 disconnect。
func (r *Room) DropPlayer(playerID string) bool {
	r.mutex.Lock()
	sess, connected := r.conns[playerID]
	existed := r.players.Remove(playerID)
	delete(r.conns, playerID)
	if len(r.conns) == 0 {
		r.cancelTimerLocked()
	}
	remaining := r.sessionsLocked()
	r.mutex.Unlock()

	if !connected && !existed {
		return false
	}
	if connected {
		sess.Unbind()
	}

	data, err := network.EncodeDisconnect(playerID)
	if err != nil {
		logger.Log.Errorf("room %s: encode disconnect: %v", r.ID, err)
		return true
	}
	for _, other := range remaining {
		if err := other.Send(data); err != nil {
			logger.Log.Warnf("room %s: notify %s of disconnect: %v", r.ID, other.GetID(), err)
		}
	}
	return true
}

// Start 把房间切到 active，只允许一次；随后向所有连接发 init。
// 已激活的房间应走 Join。
func (r *Room) Start() error {
	if err := r.machine.Transition(state.StatusActive); err != nil {
		return err
	}

	data, err := r.encodeInit()
	if err != nil {
		return err
	}
	for _, sess := range r.sessions() {
		if err := sess.Send(data); err != nil {
			logger.Log.Warnf("room %s: send init to %s: %v", r.ID, sess.GetID(), err)
		}
	}
	return nil
}

// Join 向单个后加入的连接补发 init，不改变房间状态
func (r *Room) Join(playerID string) error {
	if !r.machine.Is(state.StatusActive) {
		return ErrNotActive
	}

	r.mutex.Lock()
	sess, exists := r.conns[playerID]
	r.mutex.Unlock()
	if !exists {
		return ErrUnknownPlayer
	}

	data, err := r.encodeInit()
	if err != nil {
		return err
	}
	return sess.Send(data)
}

// SetReady 客户端资源加载完毕，开始接收 update 帧
func (r *Room) SetReady(playerID string) error {
	r.mutex.Lock()
	sess, exists := r.conns[playerID]
	r.mutex.Unlock()
	if !exists {
		return ErrUnknownPlayer
	}
	sess.SetReady(true)
	return nil
}

// Update 合并一份客户端上报的状态
func (r *Room) Update(playerID string, patch player.Patch) error {
	return r.players.Update(playerID, patch)
}

// StartUpdates 启动广播定时器，幂等。整个房间只有一个定时任务，
// 连接清空时由任务自行注销。
func (r *Room) StartUpdates() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.timerID != 0 {
		return
	}
	r.timerID = r.sched.AddTimer(r.tick, r.tick, r.broadcastTick)
}

// broadcastTick 每个 tick 序列化一次玩家列表，发给就绪的连接
func (r *Room) broadcastTick() {
	r.mutex.Lock()
	if len(r.conns) == 0 {
		r.cancelTimerLocked()
		r.mutex.Unlock()
		return
	}
	entries := r.players.List()
	targets := make([]*session.Session, 0, len(r.conns))
	for _, sess := range r.conns {
		if sess.Ready() {
			targets = append(targets, sess)
		}
	}
	r.mutex.Unlock()

	if len(targets) == 0 {
		return
	}
	data, err := network.EncodeUpdate(entries)
	if err != nil {
		logger.Log.Errorf("room %s: encode update: %v", r.ID, err)
		return
	}
	for _, sess := range targets {
		if err := sess.Send(data); err != nil {
			logger.Log.Warnf("room %s: send update to %s: %v", r.ID, sess.GetID(), err)
		}
	}
}

// Close 注销广播定时器，目录移除房间时调用
func (r *Room) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.cancelTimerLocked()
}

func (r *Room) Active() bool {
	return r.machine.Is(state.StatusActive)
}

// Online 在线数恒等于连接表大小
func (r *Room) Online() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.conns)
}

// Updating 广播定时器是否在运行
func (r *Room) Updating() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.timerID != 0
}

// Describe 大厅目录里本房间的一行
func (r *Room) Describe() network.RoomInfo {
	r.mutex.Lock()
	online := len(r.conns)
	r.mutex.Unlock()

	return network.RoomInfo{
		Name:    r.Name,
		ID:      r.ID,
		Online:  online,
		Map:     r.MapID,
		Players: r.players.List(),
		Active:  r.Active(),
	}
}

func (r *Room) encodeInit() ([]byte, error) {
	return network.EncodeInit(r.players.List(), r.mapMeta, r.skinMeta)
}

func (r *Room) sessions() []*session.Session {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sessionsLocked()
}

func (r *Room) sessionsLocked() []*session.Session {
	sessions := make([]*session.Session, 0, len(r.conns))
	for _, sess := range r.conns {
		sessions = append(sessions, sess)
	}
	return sessions
}

func (r *Room) cancelTimerLocked() {
	if r.timerID != 0 {
		r.sched.RemoveTimer(r.timerID)
		r.timerID = 0
	}
}
