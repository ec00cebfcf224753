/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Seednode/hotseat/hotseat"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

const (
	sendBuffer   = 16
	maxFrameSize = 8 << 10
)

var (
	errRateLimited     = errors.New("too many requests, slow down")
	errMissingSettings = errors.New("settings are required")
)

// ClientMessage is every request a client can send over the socket.
type ClientMessage struct {
	Type           string                 `json:"type"`
	RequestID      string                 `json:"request_id,omitempty"`
	Name           string                 `json:"name,omitempty"`
	RoomCode       string                 `json:"room_code,omitempty"`
	PlayerID       string                 `json:"player_id,omitempty"`
	Text           string                 `json:"text,omitempty"`
	TargetPlayerID string                 `json:"target_player_id,omitempty"`
	Settings       *hotseat.SettingsPatch `json:"settings,omitempty"`
}

// AckMessage answers exactly one ClientMessage, and only to its sender.
type AckMessage struct {
	Type      string            `json:"type"` // "ack"
	RequestID string            `json:"request_id,omitempty"`
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	Code      string            `json:"code,omitempty"`
	PlayerID  string            `json:"player_id,omitempty"`
	Room      *hotseat.Snapshot `json:"room,omitempty"`
}

// RoomUpdatedMessage is pushed to every connection in a room after it changes.
type RoomUpdatedMessage struct {
	Type string           `json:"type"` // "room_updated"
	Room hotseat.Snapshot `json:"room"`
}

type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan any
	limiter *rate.Limiter
}

// Hub tracks live sockets by connection id and fans room updates out to
// them.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
}

func newHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	if h.clients[c.id] != c {
		return
	}

	delete(h.clients, c.id)
	close(c.send)
}

func (h *Hub) deliverLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		h.dropLocked(c)
	}
}

func (h *Hub) deliver(c *Client, msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.id] == c {
		h.deliverLocked(c, msg)
	}
}

// Publish satisfies hotseat.Notifier. Slow clients are dropped instead of
// stalling the room.
func (h *Hub) Publish(connIDs []string, snap hotseat.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := RoomUpdatedMessage{Type: "room_updated", Room: snap}
	for _, id := range connIDs {
		if c, ok := h.clients[id]; ok {
			h.deliverLocked(c, msg)
		}
	}
}

func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// dispatch applies one request to the registry on behalf of connID.
func dispatch(reg *hotseat.Registry, connID string, msg ClientMessage) AckMessage {
	var (
		joined hotseat.Joined
		err    error
	)

	switch msg.Type {
	case "create_room":
		joined, err = reg.CreateRoom(connID, msg.Name)
	case "join_room":
		joined, err = reg.JoinRoom(connID, msg.RoomCode, msg.Name)
	case "reconnect_player":
		joined, err = reg.Reconnect(connID, msg.PlayerID)
	case "start_game":
		err = reg.StartGame(connID)
	case "submit_answer":
		err = reg.SubmitAnswer(connID, msg.Text)
	case "submit_vote":
		err = reg.SubmitVote(connID, msg.TargetPlayerID)
	case "update_settings":
		if msg.Settings == nil {
			err = errMissingSettings
		} else {
			err = reg.UpdateSettings(connID, *msg.Settings)
		}
	case "advance_round":
		err = reg.AdvanceRound(connID)
	case "end_game":
		err = reg.EndGame(connID)
	case "veto_question":
		err = reg.VetoQuestion(connID)
	case "leave_room":
		reg.Leave(connID)
	case "room_state":
		joined.Room, err = reg.Snapshot(msg.RoomCode)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	ack := AckMessage{Type: "ack", RequestID: msg.RequestID}
	if err != nil {
		ack.Error = err.Error()
		ack.Code = errorCode(err)

		return ack
	}

	ack.OK = true
	ack.PlayerID = joined.PlayerID
	if joined.Room.Code != "" {
		ack.Room = &joined.Room
	}

	return ack
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, hub *Hub, reg *hotseat.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan any, sendBuffer),
			limiter: rate.NewLimiter(rate.Limit(cfg.actionRate), cfg.actionBurst),
		}

		hub.register(client)
		logf(cfg, "SERVE: Socket %s opened by %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(cfg, hub, reg)
	}
}

func (c *Client) readPump(cfg *Config, h *Hub, reg *hotseat.Registry) {
	defer func() {
		h.unregister(c)
		reg.Leave(c.id)
		_ = c.conn.Close()

		logf(cfg, "SERVE: Socket %s closed", c.id)
	}()

	c.conn.SetReadLimit(maxFrameSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.deliver(c, AckMessage{Type: "ack", Error: "malformed message", Code: errorCode(err)})

			continue
		}

		if !c.limiter.Allow() {
			h.deliver(c, AckMessage{
				Type:      "ack",
				RequestID: msg.RequestID,
				Error:     errRateLimited.Error(),
				Code:      errorCode(errRateLimited),
			})

			continue
		}

		h.deliver(c, dispatch(reg, c.id, msg))
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
