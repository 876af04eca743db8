package player

// Facing 表示玩家朝向，线上协议沿用 "L"/"R"
type Facing string

const (
	FacingLeft  Facing = "L"
	FacingRight Facing = "R"
)

// DefaultWeaponSkin 新玩家的初始武器
const DefaultWeaponSkin = "bazooka"

// Weapon 玩家当前武器的皮肤与旋转角
type Weapon struct {
	Skin     string  `json:"skin"`
	Rotation float64 `json:"rotation"`
}

// State 单个玩家的权威状态，按原样序列化进广播帧
type State struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pos    Facing  `json:"pos"`
	Weapon Weapon  `json:"weapon"`
	Shot   *string `json:"shot"`
	Jump   *bool   `json:"jump"`
}

// Patch 客户端 update 消息携带的字段集合。位置与朝向按出现与否
// 合并；Shot/Jump 每次整体替换，客户端以 null 清除待决事件。
type Patch struct {
	X      *float64     `json:"x"`
	Y      *float64     `json:"y"`
	Pos    *Facing      `json:"pos"`
	Weapon *WeaponPatch `json:"weapon"`
	Shot   *string      `json:"shot"`
	Jump   *bool        `json:"jump"`
}

type WeaponPatch struct {
	Skin     *string  `json:"skin"`
	Rotation *float64 `json:"rotation"`
}

func (s *State) apply(p Patch) {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Pos != nil {
		s.Pos = *p.Pos
	}
	if p.Weapon != nil {
		if p.Weapon.Skin != nil {
			s.Weapon.Skin = *p.Weapon.Skin
		}
		if p.Weapon.Rotation != nil {
			s.Weapon.Rotation = *p.Weapon.Rotation
		}
	}
	s.Shot = p.Shot
	s.Jump = p.Jump
}
