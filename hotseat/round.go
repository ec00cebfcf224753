/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"strings"
	"unicode/utf8"
)

// RoundStatus mirrors the room phase while the round is live.
type RoundStatus string

const (
	RoundPending           RoundStatus = "pending"
	RoundCollectingAnswers RoundStatus = "collectingAnswers"
	RoundVoting            RoundStatus = "voting"
	RoundShowingResults    RoundStatus = "showingResults"
	RoundComplete          RoundStatus = "complete"
)

const (
	placeholderAnswer        = "(No answer)"
	placeholderHotSeatAnswer = "(No answer provided)"
)

// Submission is one answer, real or bluff.
type Submission struct {
	PlayerID     string
	Text         string
	IsRealAnswer bool
}

// Vote records who a voter believes gave the real answer.
type Vote struct {
	VoterID            string
	SubmissionPlayerID string
}

// Round is one question asked of one hot seat.
type Round struct {
	ID              string
	HotSeatPlayerID string
	Question        string
	Submissions     []Submission
	Votes           []Vote
	Status          RoundStatus
}

func (rd *Round) submission(playerID string) *Submission {
	for i := range rd.Submissions {
		if rd.Submissions[i].PlayerID == playerID {
			return &rd.Submissions[i]
		}
	}

	return nil
}

func (rd *Round) hasRealAnswer() bool {
	for _, s := range rd.Submissions {
		if s.IsRealAnswer {
			return true
		}
	}

	return false
}

func (rd *Round) vote(voterID string) *Vote {
	for i := range rd.Votes {
		if rd.Votes[i].VoterID == voterID {
			return &rd.Votes[i]
		}
	}

	return nil
}

// startRound picks the next hot seat round-robin over the connected players,
// flags them, and deals a question.
func (r *room) startRound() *Round {
	eligible := r.connectedPlayers()

	var hotSeat *Player
	if len(eligible) > 0 {
		hotSeat = eligible[len(r.rounds)%len(eligible)]
	}

	for _, p := range r.players {
		p.IsHotSeat = hotSeat != nil && p.ID == hotSeat.ID
	}

	rd := &Round{
		ID:          r.newID(),
		Question:    drawQuestion(r, hotSeat),
		Submissions: []Submission{},
		Votes:       []Vote{},
		Status:      RoundPending,
	}
	if hotSeat != nil {
		rd.HotSeatPlayerID = hotSeat.ID
	}

	return rd
}

// recordSubmission upserts the player's answer. Only the hot seat's answer
// counts as real.
func (r *room) recordSubmission(rd *Round, p *Player, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return newError(ErrValidation, "answer cannot be empty")
	}
	if limit := r.cfg.MaxAnswerLength; limit > 0 && utf8.RuneCountInString(trimmed) > limit {
		return newError(ErrValidation, "answer cannot be longer than %d characters", limit)
	}

	sub := Submission{PlayerID: p.ID, Text: trimmed, IsRealAnswer: p.IsHotSeat}

	if existing := rd.submission(p.ID); existing != nil {
		*existing = sub

		return nil
	}
	rd.Submissions = append(rd.Submissions, sub)

	return nil
}

// fillMissingSubmissions gives every connected player without an answer a
// placeholder, and guarantees exactly one real answer exists.
func (r *room) fillMissingSubmissions(rd *Round) {
	for _, p := range r.connectedPlayers() {
		if rd.submission(p.ID) != nil {
			continue
		}

		text := placeholderAnswer
		if p.IsHotSeat {
			text = placeholderHotSeatAnswer
		}
		rd.Submissions = append(rd.Submissions, Submission{
			PlayerID:     p.ID,
			Text:         text,
			IsRealAnswer: p.IsHotSeat,
		})
	}

	if rd.hasRealAnswer() || rd.HotSeatPlayerID == "" {
		return
	}

	// The hot seat is gone or never answered.
	if existing := rd.submission(rd.HotSeatPlayerID); existing != nil {
		existing.Text = placeholderHotSeatAnswer
		existing.IsRealAnswer = true

		return
	}
	rd.Submissions = append(rd.Submissions, Submission{
		PlayerID:     rd.HotSeatPlayerID,
		Text:         placeholderHotSeatAnswer,
		IsRealAnswer: true,
	})
}

// recordVote validates everything before touching the round.
func (r *room) recordVote(rd *Round, voter *Player, targetID string) error {
	switch {
	case voter.ID == rd.HotSeatPlayerID:
		return newError(ErrValidation, "hot seat cannot vote")
	case voter.ID == targetID:
		return newError(ErrValidation, "cannot vote for yourself")
	case rd.submission(targetID) == nil:
		return newError(ErrValidation, "submission not found")
	case rd.vote(voter.ID) != nil:
		return newError(ErrConflict, "vote already submitted")
	}

	rd.Votes = append(rd.Votes, Vote{VoterID: voter.ID, SubmissionPlayerID: targetID})

	return nil
}

// scoreRound folds the round's votes into player scores. It must run once
// per round.
func (r *room) scoreRound(rd *Round) {
	hotSeat := r.player(rd.HotSeatPlayerID)

	for _, v := range rd.Votes {
		sub := rd.submission(v.SubmissionPlayerID)
		voter := r.player(v.VoterID)
		if sub == nil || voter == nil {
			continue
		}

		if sub.IsRealAnswer {
			voter.Score += 2
			voter.NumCorrectGuesses++
			if hotSeat != nil {
				hotSeat.Score++
			}

			continue
		}

		if owner := r.player(sub.PlayerID); owner != nil {
			owner.Score++
			owner.NumPeopleTricked++
		}
	}

	rd.Status = RoundComplete
}
