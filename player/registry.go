package player

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrDuplicateKey  = errors.New("player id already registered")
	ErrUnknownPlayer = errors.New("unknown player")
)

// Entry 广播帧里的一项：玩家 key 与其状态快照
type Entry struct {
	Key   string `json:"key"`
	Value State  `json:"value"`
}

// Registry 房间内玩家状态的权威集合。List 按加入顺序输出，
// 保证同一帧内的序列化顺序稳定。
type Registry struct {
	mu       sync.RWMutex
	players  map[string]*State
	order    []string
	spawnMax int
}

func NewRegistry(spawnMax int) *Registry {
	if spawnMax <= 0 {
		spawnMax = 250
	}
	return &Registry{
		players:  make(map[string]*State),
		spawnMax: spawnMax,
	}
}

// Create 注册一个新玩家并返回其 key。id 为空时生成 uuid。
// 出生点在 [1, spawnMax] 内随机。重复 key 拒绝，避免覆盖在线玩家。
func (r *Registry) Create(id, skin string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	if skin == "" {
		skin = DefaultWeaponSkin
	}
	if _, exists := r.players[id]; exists {
		return "", ErrDuplicateKey
	}

	r.players[id] = &State{
		X:      float64(rand.Intn(r.spawnMax) + 1),
		Y:      float64(rand.Intn(r.spawnMax) + 1),
		Pos:    FacingLeft,
		Weapon: Weapon{Skin: skin, Rotation: 0},
	}
	r.order = append(r.order, id)
	return id, nil
}

// Update 将 patch 合并进已注册玩家的状态。未注册的 id 拒绝，
// 不做隐式注册。
func (r *Registry) Update(id string, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.players[id]
	if !exists {
		return ErrUnknownPlayer
	}
	state.apply(patch)
	return nil
}

// Remove 删除玩家，返回其是否存在过。重复删除无害。
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[id]; !exists {
		return false
	}
	delete(r.players, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get 返回单个玩家状态的副本
func (r *Registry) Get(id string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.players[id]
	if !exists {
		return State{}, false
	}
	return *state, true
}

// List 按加入顺序返回全部玩家的快照副本，可直接作为广播载荷
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, Entry{Key: key, Value: *r.players[key]})
	}
	return entries
}

// Len 当前注册的玩家数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
