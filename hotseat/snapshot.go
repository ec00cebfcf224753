/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

// Snapshot is the full public state of a room, as pushed to every
// connection bound to it.
type Snapshot struct {
	Code              string           `json:"code"`
	HostID            string           `json:"hostId"`
	Players           []PlayerSnapshot `json:"players"`
	GameState         Phase            `json:"gameState"`
	CurrentRoundIndex int              `json:"currentRoundIndex"`
	Rounds            []RoundSnapshot  `json:"rounds"`
	Settings          Settings         `json:"settings"`
	CreatedAt         int64            `json:"createdAt"`
	Timers            Timers           `json:"timers"`
}

type PlayerSnapshot struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RoomCode          string `json:"roomCode"`
	Score             int    `json:"score"`
	NumPeopleTricked  int    `json:"numPeopleTricked"`
	NumCorrectGuesses int    `json:"numCorrectGuesses"`
	IsHost            bool   `json:"isHost"`
	IsHotSeat         bool   `json:"isHotSeat"`
	Connected         bool   `json:"connected"`
}

type SubmissionSnapshot struct {
	PlayerID     string `json:"playerId"`
	Text         string `json:"text"`
	IsRealAnswer bool   `json:"isRealAnswer"`
}

type VoteSnapshot struct {
	VoterID            string `json:"voterId"`
	SubmissionPlayerID string `json:"submissionPlayerId"`
}

type RoundSnapshot struct {
	ID              string               `json:"id"`
	HotSeatPlayerID string               `json:"hotSeatPlayerId"`
	Question        string               `json:"question"`
	Submissions     []SubmissionSnapshot `json:"submissions"`
	Votes           []VoteSnapshot       `json:"votes"`
	Status          RoundStatus          `json:"status"`
}

// Timers holds the armed deadline as milliseconds since the Unix epoch.
// At most one field is set.
type Timers struct {
	AnswerDeadline *int64 `json:"answerDeadline,omitempty"`
	VoteDeadline   *int64 `json:"voteDeadline,omitempty"`
	RevealDeadline *int64 `json:"revealDeadline,omitempty"`
}

// Player returns the snapshot of the player with the given id.
func (s Snapshot) Player(id string) (PlayerSnapshot, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}

	return PlayerSnapshot{}, false
}

// CurrentRound returns the live round, if any.
func (s Snapshot) CurrentRound() (RoundSnapshot, bool) {
	if s.CurrentRoundIndex < 0 || s.CurrentRoundIndex >= len(s.Rounds) {
		return RoundSnapshot{}, false
	}

	return s.Rounds[s.CurrentRoundIndex], true
}

func (r *room) snapshot() Snapshot {
	snap := Snapshot{
		Code:              r.code,
		Players:           make([]PlayerSnapshot, 0, len(r.players)),
		GameState:         r.phase,
		CurrentRoundIndex: r.currentRoundIndex,
		Rounds:            make([]RoundSnapshot, 0, len(r.rounds)),
		Settings:          r.settings,
		CreatedAt:         r.createdAt.UnixMilli(),
	}

	if h := r.host(); h != nil {
		snap.HostID = h.ID
	}

	for _, p := range r.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:                p.ID,
			Name:              p.Name,
			RoomCode:          r.code,
			Score:             p.Score,
			NumPeopleTricked:  p.NumPeopleTricked,
			NumCorrectGuesses: p.NumCorrectGuesses,
			IsHost:            p.IsHost,
			IsHotSeat:         p.IsHotSeat,
			Connected:         p.connected(),
		})
	}

	for _, rd := range r.rounds {
		rs := RoundSnapshot{
			ID:              rd.ID,
			HotSeatPlayerID: rd.HotSeatPlayerID,
			Question:        rd.Question,
			Submissions:     make([]SubmissionSnapshot, 0, len(rd.Submissions)),
			Votes:           make([]VoteSnapshot, 0, len(rd.Votes)),
			Status:          rd.Status,
		}
		for _, s := range rd.Submissions {
			rs.Submissions = append(rs.Submissions, SubmissionSnapshot(s))
		}
		for _, v := range rd.Votes {
			rs.Votes = append(rs.Votes, VoteSnapshot(v))
		}
		snap.Rounds = append(snap.Rounds, rs)
	}

	if r.deadline.armed() {
		at := r.deadline.At.UnixMilli()
		switch r.deadline.Kind {
		case DeadlineAnswer:
			snap.Timers.AnswerDeadline = &at
		case DeadlineVote:
			snap.Timers.VoteDeadline = &at
		case DeadlineReveal:
			snap.Timers.RevealDeadline = &at
		}
	}

	return snap
}
