package assets

import (
	"encoding/json"
	"fmt"
	"os"
)

// Map 地图资源元数据，随 init 消息下发给客户端加载
type Map struct {
	Background string          `json:"background"`
	Objects    string          `json:"objects"`
	Tiles      string          `json:"tiles"`
	Width      float64         `json:"width,omitempty"`
	Height     float64         `json:"height,omitempty"`
	Polygon    json.RawMessage `json:"polygon,omitempty"`
}

// Skin 角色皮肤元数据
type Skin struct {
	Objects string          `json:"objects"`
	Polygon json.RawMessage `json:"polygon,omitempty"`
}

// Catalog 启动时加载一次的地图与皮肤目录
type Catalog struct {
	Maps  map[string]Map
	Skins map[string]Skin
}

// Load 从 JSON 文件读取目录。路径为空时回退到内置的最小目录，
// 便于本地开发与测试。
func Load(mapsFile, skinsFile string) (*Catalog, error) {
	c := &Catalog{
		Maps: map[string]Map{
			"desert": {Background: "desert/background.png", Objects: "desert/objects.json", Tiles: "desert/tiles.png"},
		},
		Skins: map[string]Skin{
			"default": {Objects: "skins/worm.json"},
		},
	}

	if mapsFile != "" {
		if err := loadJSON(mapsFile, &c.Maps); err != nil {
			return nil, fmt.Errorf("load maps: %w", err)
		}
	}
	if skinsFile != "" {
		if err := loadJSON(skinsFile, &c.Skins); err != nil {
			return nil, fmt.Errorf("load skins: %w", err)
		}
	}
	return c, nil
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Map 按名字取地图，不存在时退回目录里的任意一张（目录保证非空）
func (c *Catalog) Map(name string) Map {
	if m, ok := c.Maps[name]; ok {
		return m
	}
	for _, m := range c.Maps {
		return m
	}
	return Map{}
}

// Skin 按名字取皮肤，同 Map 的回退策略
func (c *Catalog) Skin(name string) Skin {
	if s, ok := c.Skins[name]; ok {
		return s
	}
	for _, s := range c.Skins {
		return s
	}
	return Skin{}
}
