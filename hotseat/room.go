/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"strings"
	"sync"
	"time"
)

// Phase is one state of a room's state machine.
type Phase string

const (
	PhaseLobby             Phase = "lobby"
	PhaseCollectingAnswers Phase = "collectingAnswers"
	PhaseVoting            Phase = "voting"
	PhaseShowingResults    Phase = "showingResults"
	PhaseFinalSummary      Phase = "finalSummary"
)

// inGame reports whether a game is under way and not yet summarized.
func (p Phase) inGame() bool {
	switch p {
	case PhaseCollectingAnswers, PhaseVoting, PhaseShowingResults:
		return true
	default:
		return false
	}
}

// Player is a durable identity inside one room. ConnID is empty while the
// player is disconnected.
type Player struct {
	ID                string
	Name              string
	ConnID            string
	Score             int
	NumPeopleTricked  int
	NumCorrectGuesses int
	IsHost            bool
	IsHotSeat         bool
}

func (p *Player) connected() bool {
	return p.ConnID != ""
}

func (p *Player) resetScore() {
	p.Score = 0
	p.NumPeopleTricked = 0
	p.NumCorrectGuesses = 0
	p.IsHotSeat = false
}

// DeadlineKind names the phase a deadline belongs to.
type DeadlineKind int

const (
	DeadlineNone DeadlineKind = iota
	DeadlineAnswer
	DeadlineVote
	DeadlineReveal
)

// Deadline is the single armed timer of a room, as an absolute time.
type Deadline struct {
	Kind DeadlineKind
	At   time.Time
}

func (d Deadline) armed() bool {
	return d.Kind != DeadlineNone
}

func (d Deadline) passed(kind DeadlineKind, now time.Time) bool {
	return d.Kind == kind && !now.Before(d.At)
}

type room struct {
	mu sync.Mutex

	code              string
	players           []*Player
	phase             Phase
	rounds            []*Round
	currentRoundIndex int
	settings          Settings
	deck              *Deck
	deadline          Deadline
	createdAt         time.Time
	lastActive        time.Time
	disposed          bool

	cfg   *GameConfig
	bank  []string
	newID func() string
}

func newRoom(code string, host *Player, now time.Time, cfg *GameConfig, bank []string, newID func() string) *room {
	host.IsHost = true

	return &room{
		code:              code,
		players:           []*Player{host},
		phase:             PhaseLobby,
		currentRoundIndex: -1,
		settings:          cfg.Defaults,
		deck:              NewDeck(bank),
		createdAt:         now,
		lastActive:        now,
		cfg:               cfg,
		bank:              bank,
		newID:             newID,
	}
}

func (r *room) player(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

func (r *room) playerByName(name string) *Player {
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}

	return nil
}

func (r *room) host() *Player {
	for _, p := range r.players {
		if p.IsHost {
			return p
		}
	}

	return nil
}

func (r *room) connectedPlayers() []*Player {
	connected := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.connected() {
			connected = append(connected, p)
		}
	}

	return connected
}

func (r *room) currentRound() *Round {
	if r.currentRoundIndex < 0 || r.currentRoundIndex >= len(r.rounds) {
		return nil
	}

	return r.rounds[r.currentRoundIndex]
}

func (r *room) connIDs() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.connected() {
			ids = append(ids, p.ConnID)
		}
	}

	return ids
}

func (r *room) arm(kind DeadlineKind, now time.Time, secs int) {
	r.disarm()
	r.deadline = Deadline{Kind: kind, At: now.Add(seconds(secs))}
}

func (r *room) disarm() {
	r.deadline = Deadline{}
}
