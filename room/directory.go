package room

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/wormserver/assets"
	"github.com/wfunc/wormserver/network"
)

// Options 目录创建房间时使用的共享参数
type Options struct {
	Tick        time.Duration
	SpawnMax    int
	DefaultMap  string
	DefaultSkin string
}

// Directory 房间 id 到房间的映射，全进程唯一的跨房间结构。
// 创建与销毁之外只读，大厅快照走读锁。
type Directory struct {
	mutex   sync.RWMutex
	rooms   map[string]*Room
	catalog *assets.Catalog
	sched   Scheduler
	opts    Options
}

func NewDirectory(catalog *assets.Catalog, sched Scheduler, opts Options) *Directory {
	if opts.Tick <= 0 {
		opts.Tick = 30 * time.Millisecond
	}
	return &Directory{
		rooms:   make(map[string]*Room),
		catalog: catalog,
		sched:   sched,
		opts:    opts,
	}
}

// CreateRoom 创建房间并登记，id 由服务端生成
func (d *Directory) CreateRoom(name, mapID string) *Room {
	if mapID == "" {
		mapID = d.opts.DefaultMap
	}

	r := NewRoom(
		uuid.New().String(),
		name,
		mapID,
		d.catalog.Map(mapID),
		d.catalog.Skin(d.opts.DefaultSkin),
		d.sched,
		d.opts.Tick,
		d.opts.SpawnMax,
	)

	d.mutex.Lock()
	d.rooms[r.ID] = r
	d.mutex.Unlock()
	return r
}

// RemoveRoom 注销房间的广播定时器并从目录移除
func (d *Directory) RemoveRoom(id string) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	r, exists := d.rooms[id]
	if !exists {
		return false
	}
	r.Close()
	delete(d.rooms, id)
	return true
}

func (d *Directory) GetRoom(id string) (*Room, bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	r, exists := d.rooms[id]
	return r, exists
}

// Describe 大厅目录快照，serversInfo 的载荷
func (d *Directory) Describe() []network.RoomInfo {
	d.mutex.RLock()
	rooms := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	d.mutex.RUnlock()

	infos := make([]network.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Describe())
	}
	return infos
}

func (d *Directory) Count() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.rooms)
}
