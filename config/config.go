package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
	Assets AssetsConfig `mapstructure:"assets"`
	Rooms  []RoomConfig `mapstructure:"rooms"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MonitorAddress string `mapstructure:"monitor_address"`
}

type GameConfig struct {
	// TickIntervalMs 控制房间广播频率
	TickIntervalMs    int `mapstructure:"tick_interval_ms"`
	TimerResolutionMs int `mapstructure:"timer_resolution_ms"`
	SpawnMax          int `mapstructure:"spawn_max"`
}

type AssetsConfig struct {
	MapsFile    string `mapstructure:"maps_file"`
	SkinsFile   string `mapstructure:"skins_file"`
	DefaultMap  string `mapstructure:"default_map"`
	DefaultSkin string `mapstructure:"default_skin"`
}

// RoomConfig 进程启动时预建的房间（原静态 serverlist）
type RoomConfig struct {
	Name string `mapstructure:"name"`
	Map  string `mapstructure:"map"`
}

func (g GameConfig) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMs) * time.Millisecond
}

func (g GameConfig) TimerResolution() time.Duration {
	return time.Duration(g.TimerResolutionMs) * time.Millisecond
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8000")
	viper.SetDefault("server.rpc_address", ":8001")
	viper.SetDefault("server.monitor_address", ":9100")
	viper.SetDefault("game.tick_interval_ms", 30)
	viper.SetDefault("game.timer_resolution_ms", 10)
	viper.SetDefault("game.spawn_max", 250)
	viper.SetDefault("assets.default_map", "desert")
	viper.SetDefault("assets.default_skin", "default")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 配置文件缺省时全部走默认值
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
