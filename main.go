package main

import (
	"github.com/wfunc/wormserver/assets"
	"github.com/wfunc/wormserver/config"
	"github.com/wfunc/wormserver/logger"
	"github.com/wfunc/wormserver/monitor"
	"github.com/wfunc/wormserver/room"
	"github.com/wfunc/wormserver/server"
	"github.com/wfunc/wormserver/session"
	"github.com/wfunc/wormserver/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load map and skin metadata
	catalog, err := assets.Load(cfg.Assets.MapsFile, cfg.Assets.SkinsFile)
	if err != nil {
		logger.Log.Fatalf("Failed to load assets: %v", err)
	}

	timers := timer.NewManager(cfg.Game.TimerResolution())
	defer timers.Stop()

	directory := room.NewDirectory(catalog, timers, room.Options{
		Tick:        cfg.Game.TickInterval(),
		SpawnMax:    cfg.Game.SpawnMax,
		DefaultMap:  cfg.Assets.DefaultMap,
		DefaultSkin: cfg.Assets.DefaultSkin,
	})

	// Seed the static room list
	for _, rc := range cfg.Rooms {
		r := directory.CreateRoom(rc.Name, rc.Map)
		logger.Log.Infof("Seeded room %s (%s) on map %s", r.ID, r.Name, r.MapID)
	}

	sessions := session.NewManager()

	mon := monitor.NewMonitor("wormserver")
	mon.SetRooms(directory.Count())
	mon.StartServer(cfg.Server.MonitorAddress)

	// Start Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, cfg.Server.RPCAddress, directory, sessions, mon)
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
