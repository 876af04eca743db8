package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Probe client: connects to the lobby, joins (or creates) a room, signals
// ready and streams random movement updates. Handy for manual soak tests.

type roomInfo struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Online int    `json:"online"`
	Active bool   `json:"active"`
}

type serverMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type probe struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	player   string
	serverID string
	ready    bool
}

func (p *probe) send(msg map[string]any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func main() {
	var addr, player string
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&player, "player", fmt.Sprintf("player%d", rand.Intn(1000)), "player name")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Connecting to %s as %s", u.String(), player)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	p := &probe{conn: conn, player: player}
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var msg serverMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("Bad message: %s", data)
				continue
			}

			switch msg.Type {
			case "serversInfo":
				var rooms []roomInfo
				_ = json.Unmarshal(msg.Payload, &rooms)
				log.Printf("<- serversInfo: %d rooms", len(rooms))
				p.mu.Lock()
				joined := p.serverID != ""
				p.mu.Unlock()
				if joined {
					continue
				}
				if len(rooms) == 0 {
					log.Println("No rooms, creating one")
					_ = p.send(map[string]any{"type": "createServer", "params": map[string]any{"name": "probe"}})
					continue
				}
				p.mu.Lock()
				p.serverID = rooms[0].ID
				p.mu.Unlock()
				log.Printf("Joining room %s (%s)", rooms[0].ID, rooms[0].Name)
				_ = p.send(map[string]any{"type": "addPlayer", "player": player, "serverId": rooms[0].ID})
				_ = p.send(map[string]any{"type": "startServer", "player": player, "serverId": rooms[0].ID})
			case "init":
				log.Println("<- init, signalling ready")
				p.mu.Lock()
				serverID := p.serverID
				p.ready = true
				p.mu.Unlock()
				_ = p.send(map[string]any{"type": "ready", "player": player, "serverId": serverID})
			case "disconnect":
				log.Printf("<- disconnect: %s", msg.Payload)
			}
		}
	}()

	x, y := 50.0, 50.0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case <-ticker.C:
			p.mu.Lock()
			serverID, ready := p.serverID, p.ready
			p.mu.Unlock()
			if !ready {
				continue
			}
			x += rand.Float64()*6 - 3
			y += rand.Float64()*6 - 3
			pos := "L"
			if rand.Intn(2) == 0 {
				pos = "R"
			}
			_ = p.send(map[string]any{
				"type":     "update",
				"player":   player,
				"serverId": serverID,
				"stats": map[string]any{
					"x":      x,
					"y":      y,
					"pos":    pos,
					"weapon": map[string]any{"rotation": rand.Float64()},
					"shot":   nil,
					"jump":   nil,
				},
			})
		}
	}
}
