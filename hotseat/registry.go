/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// RoomCodeLength is the length of generated room codes.
	RoomCodeLength = 4

	// RoomCodeChars leaves out characters that are easy to misread.
	RoomCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// Clock lets tests control time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Notifier delivers a room snapshot to the given connections. It is called
// with the room locked and must not block.
type Notifier interface {
	Publish(connIDs []string, snap Snapshot)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(connIDs []string, snap Snapshot)

func (f NotifierFunc) Publish(connIDs []string, snap Snapshot) {
	f(connIDs, snap)
}

// Logger matches the server's printf-style logger.
type Logger func(format string, args ...any)

// Joined is returned to a connection that created, joined or reconnected to
// a room, so it can remember its player id.
type Joined struct {
	PlayerID string   `json:"playerId"`
	Room     Snapshot `json:"room"`
}

type binding struct {
	code     string
	playerID string
}

// Registry owns every room of the process and routes connection actions to
// them.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*room
	conns   map[string]binding // connection id -> player
	players map[string]string  // player id -> room code

	cfg      GameConfig
	clock    Clock
	notifier Notifier
	logf     Logger
	codeGen  func() string
	newID    func() string
	bank     []string
}

type Option func(*Registry)

func WithConfig(cfg GameConfig) Option {
	return func(r *Registry) { r.cfg = cfg }
}

func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(r *Registry) { r.notifier = n }
}

func WithLogger(l Logger) Option {
	return func(r *Registry) { r.logf = l }
}

func WithCodeGenerator(gen func() string) Option {
	return func(r *Registry) { r.codeGen = gen }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

func WithQuestions(bank []string) Option {
	return func(r *Registry) {
		if len(bank) > 0 {
			r.bank = append([]string(nil), bank...)
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[string]*room),
		conns:   make(map[string]binding),
		players: make(map[string]string),
		cfg:     DefaultGameConfig(),
		clock:   systemClock{},
		logf:    func(string, ...any) {},
		codeGen: GenerateRoomCode,
		newID:   uuid.NewString,
		bank:    DefaultQuestions,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GenerateRoomCode draws a random code from RoomCodeChars.
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	size := big.NewInt(int64(len(RoomCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		code[i] = RoomCodeChars[n.Int64()]
	}

	return string(code)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *Registry) validName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", newError(ErrValidation, "name cannot be empty")
	}
	if limit := r.cfg.MaxNameLength; limit > 0 && utf8.RuneCountInString(trimmed) > limit {
		return "", newError(ErrValidation, "name cannot be longer than %d characters", limit)
	}

	return trimmed, nil
}

// CreateRoom opens a new lobby with the caller as host.
func (r *Registry) CreateRoom(connID, hostName string) (Joined, error) {
	name, err := r.validName(hostName)
	if err != nil {
		return Joined{}, err
	}

	now := r.clock.Now()
	host := &Player{ID: r.newID(), Name: name, ConnID: connID}
	rm := newRoom("", host, now, &r.cfg, r.bank, r.newID)

	rm.mu.Lock()

	r.mu.Lock()
	for {
		code := r.codeGen()
		if _, exists := r.rooms[code]; !exists {
			rm.code = code
			break
		}
	}
	r.rooms[rm.code] = rm
	r.players[host.ID] = rm.code
	prev, hadPrev := r.bindLocked(connID, binding{code: rm.code, playerID: host.ID})
	r.mu.Unlock()

	r.logf("GAMES: Room %s created by %q", rm.code, name)
	r.publish(rm)
	joined := Joined{PlayerID: host.ID, Room: rm.snapshot()}

	rm.mu.Unlock()

	if hadPrev {
		r.release(prev, connID)
	}

	return joined, nil
}

// JoinRoom adds a new player to a room that is still in its lobby.
func (r *Registry) JoinRoom(connID, code, name string) (Joined, error) {
	name, err := r.validName(name)
	if err != nil {
		return Joined{}, err
	}

	rm := r.room(normalizeCode(code))
	if rm == nil {
		return Joined{}, newError(ErrNotFound, "room not found")
	}

	joined, prev, hadPrev, err := r.join(rm, connID, name)
	if err != nil {
		return Joined{}, err
	}

	if hadPrev {
		r.release(prev, connID)
	}

	return joined, nil
}

func (r *Registry) join(rm *room, connID, name string) (Joined, binding, bool, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	switch {
	case rm.disposed:
		return Joined{}, binding{}, false, newError(ErrNotFound, "room not found")
	case rm.phase != PhaseLobby:
		return Joined{}, binding{}, false, newError(ErrConflict, "game already started")
	case rm.playerByName(name) != nil:
		return Joined{}, binding{}, false, newError(ErrConflict, "name already taken")
	}

	p := &Player{ID: r.newID(), Name: name, ConnID: connID}
	rm.players = append(rm.players, p)
	rm.lastActive = r.clock.Now()

	r.mu.Lock()
	r.players[p.ID] = rm.code
	prev, hadPrev := r.bindLocked(connID, binding{code: rm.code, playerID: p.ID})
	r.mu.Unlock()

	r.logf("GAMES: Player %q joined %s", name, rm.code)
	r.publish(rm)

	return Joined{PlayerID: p.ID, Room: rm.snapshot()}, prev, hadPrev, nil
}

// Reconnect binds a new connection to a known player, in any phase.
func (r *Registry) Reconnect(connID, playerID string) (Joined, error) {
	r.mu.RLock()
	rm := r.rooms[r.players[playerID]]
	r.mu.RUnlock()

	if rm == nil {
		return Joined{}, newError(ErrNotFound, "player not found")
	}

	joined, prev, hadPrev, err := r.rebind(rm, connID, playerID)
	if err != nil {
		return Joined{}, err
	}

	if hadPrev {
		r.release(prev, connID)
	}

	return joined, nil
}

func (r *Registry) rebind(rm *room, connID, playerID string) (Joined, binding, bool, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	p := rm.player(playerID)
	if rm.disposed || p == nil {
		return Joined{}, binding{}, false, newError(ErrNotFound, "player not found")
	}

	b := binding{code: rm.code, playerID: p.ID}
	old := p.ConnID
	rm.reconnect(p, connID)
	rm.lastActive = r.clock.Now()

	r.mu.Lock()
	if old != "" && old != connID && r.conns[old] == b {
		delete(r.conns, old)
	}
	prev, hadPrev := r.bindLocked(connID, b)
	r.mu.Unlock()

	r.logf("GAMES: Player %q reconnected to %s", p.Name, rm.code)
	r.publish(rm)

	return Joined{PlayerID: p.ID, Room: rm.snapshot()}, prev, hadPrev, nil
}

// Leave handles a connection leaving or dropping. Unknown connections are
// ignored.
func (r *Registry) Leave(connID string) {
	r.mu.RLock()
	b, ok := r.conns[connID]
	r.mu.RUnlock()

	if !ok {
		return
	}

	r.release(b, connID)
}

// release disconnects the player behind b, provided connID is still the
// connection bound to them.
func (r *Registry) release(b binding, connID string) {
	rm := r.room(b.code)
	if rm == nil {
		r.unbind(connID, b)

		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	p := rm.player(b.playerID)
	if rm.disposed || p == nil || p.ConnID != connID {
		r.unbind(connID, b)

		return
	}

	removed := rm.disconnect(p, r.clock.Now())
	rm.lastActive = r.clock.Now()

	r.mu.Lock()
	if r.conns[connID] == b {
		delete(r.conns, connID)
	}
	if removed {
		delete(r.players, p.ID)
	}
	if rm.disposed && r.rooms[rm.code] == rm {
		delete(r.rooms, rm.code)
	}
	r.mu.Unlock()

	if rm.disposed {
		r.logf("GAMES: Room %s disposed", rm.code)

		return
	}

	r.logf("GAMES: Player %q left %s", p.Name, rm.code)
	r.publish(rm)
}

func (r *Registry) unbind(connID string, b binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conns[connID] == b {
		delete(r.conns, connID)
	}
}

// bindLocked points connID at b and returns what it pointed at before, if
// that was a different player.
func (r *Registry) bindLocked(connID string, b binding) (binding, bool) {
	prev, had := r.conns[connID]
	r.conns[connID] = b

	return prev, had && prev != b
}

func (r *Registry) room(code string) *room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rooms[code]
}

// Snapshot looks a room up by code for late hydration.
func (r *Registry) Snapshot(code string) (Snapshot, error) {
	rm := r.room(normalizeCode(code))
	if rm == nil {
		return Snapshot{}, newError(ErrNotFound, "room not found")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.disposed {
		return Snapshot{}, newError(ErrNotFound, "room not found")
	}

	return rm.snapshot(), nil
}

// RoomCount reports how many rooms are alive.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// act runs fn against the caller's room with the room locked, then
// broadcasts. fn either fully applies or returns an error having changed
// nothing.
func (r *Registry) act(connID string, fn func(rm *room, p *Player, now time.Time) error) error {
	r.mu.RLock()
	b, ok := r.conns[connID]
	rm := r.rooms[b.code]
	r.mu.RUnlock()

	if !ok || rm == nil {
		return newError(ErrNotFound, "player not found")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	p := rm.player(b.playerID)
	if rm.disposed || p == nil || p.ConnID != connID {
		return newError(ErrNotFound, "player not found")
	}

	now := r.clock.Now()
	if err := fn(rm, p, now); err != nil {
		return err
	}
	rm.lastActive = now

	r.publish(rm)

	return nil
}

func (r *Registry) StartGame(connID string) error {
	return r.act(connID, func(rm *room, p *Player, now time.Time) error {
		if err := rm.startGame(p, now); err != nil {
			return err
		}
		r.logf("GAMES: %q started a game in %s", p.Name, rm.code)

		return nil
	})
}

func (r *Registry) SubmitAnswer(connID, text string) error {
	return r.act(connID, func(rm *room, p *Player, now time.Time) error {
		return rm.submitAnswer(p, text, now)
	})
}

func (r *Registry) SubmitVote(connID, targetPlayerID string) error {
	return r.act(connID, func(rm *room, p *Player, now time.Time) error {
		return rm.submitVote(p, targetPlayerID, now)
	})
}

func (r *Registry) UpdateSettings(connID string, patch SettingsPatch) error {
	return r.act(connID, func(rm *room, p *Player, _ time.Time) error {
		return rm.updateSettings(p, patch)
	})
}

func (r *Registry) AdvanceRound(connID string) error {
	return r.act(connID, func(rm *room, p *Player, now time.Time) error {
		return rm.advanceRound(p, now)
	})
}

func (r *Registry) EndGame(connID string) error {
	return r.act(connID, func(rm *room, p *Player, _ time.Time) error {
		if err := rm.endGame(p); err != nil {
			return err
		}
		r.logf("GAMES: %q ended the game in %s", p.Name, rm.code)

		return nil
	})
}

func (r *Registry) VetoQuestion(connID string) error {
	return r.act(connID, func(rm *room, p *Player, now time.Time) error {
		return rm.vetoQuestion(p, now)
	})
}

func (r *Registry) allRooms() []*room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*room, 0, len(r.rooms))
	for _, rm := range r.rooms {
		rooms = append(rooms, rm)
	}

	return rooms
}

// Tick re-evaluates every room against now. Rooms that already advanced are
// left alone.
func (r *Registry) Tick(now time.Time) {
	for _, rm := range r.allRooms() {
		rm.mu.Lock()
		if !rm.disposed && rm.evaluate(now) {
			r.publish(rm)
		}
		rm.mu.Unlock()
	}
}

// Reap disposes rooms nobody is connected to that have been idle longer
// than the session timeout.
func (r *Registry) Reap(now time.Time) {
	if r.cfg.SessionTimeout <= 0 {
		return
	}
	cutoff := now.Add(-r.cfg.SessionTimeout)

	for _, rm := range r.allRooms() {
		rm.mu.Lock()
		if rm.disposed || len(rm.connectedPlayers()) > 0 || !rm.lastActive.Before(cutoff) {
			rm.mu.Unlock()

			continue
		}

		rm.dispose()

		r.mu.Lock()
		for _, p := range rm.players {
			delete(r.players, p.ID)
		}
		if r.rooms[rm.code] == rm {
			delete(r.rooms, rm.code)
		}
		r.mu.Unlock()

		rm.mu.Unlock()

		r.logf("GAMES: Reaped idle room %s", rm.code)
	}
}

// Run drives deadlines and reaping until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var reap <-chan time.Time
	if r.cfg.SessionTimeout > 0 {
		reaper := time.NewTicker(r.cfg.SessionTimeout / 2)
		defer reaper.Stop()
		reap = reaper.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(r.clock.Now())
		case <-reap:
			r.Reap(r.clock.Now())
		}
	}
}

func (r *Registry) publish(rm *room) {
	if r.notifier == nil {
		return
	}

	r.notifier.Publish(rm.connIDs(), rm.snapshot())
}
