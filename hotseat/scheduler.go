/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import "time"

// evaluate advances the room as far as its recorded actions and the clock
// allow. Actions and the periodic tick both come through here, and each
// transition checks the current phase first, so a deadline that lands after
// quorum already moved the room on does nothing.
func (r *room) evaluate(now time.Time) bool {
	changed := false
	for r.step(now) {
		changed = true
	}

	return changed
}

func (r *room) step(now time.Time) bool {
	if r.phase.inGame() && len(r.connectedPlayers()) < r.cfg.MinPlayers {
		r.finish()

		return true
	}

	switch r.phase {
	case PhaseCollectingAnswers:
		if r.answersComplete() || r.deadline.passed(DeadlineAnswer, now) {
			r.startVoting(now)

			return true
		}
	case PhaseVoting:
		if r.votesComplete() || r.deadline.passed(DeadlineVote, now) {
			r.revealResults(now)

			return true
		}
	case PhaseShowingResults:
		if r.deadline.passed(DeadlineReveal, now) {
			r.nextRound(now)

			return true
		}
	}

	return false
}

// answersComplete: every connected player answered and the real answer is in.
func (r *room) answersComplete() bool {
	rd := r.currentRound()
	if rd == nil {
		return false
	}

	for _, p := range r.connectedPlayers() {
		if rd.submission(p.ID) == nil {
			return false
		}
	}

	return rd.hasRealAnswer()
}

// votesComplete: every connected player other than the hot seat voted.
func (r *room) votesComplete() bool {
	rd := r.currentRound()
	if rd == nil {
		return false
	}

	for _, p := range r.connectedPlayers() {
		if p.ID == rd.HotSeatPlayerID {
			continue
		}
		if rd.vote(p.ID) == nil {
			return false
		}
	}

	return true
}

func (r *room) nextRound(now time.Time) {
	r.disarm()

	if len(r.connectedPlayers()) < r.cfg.MinPlayers || len(r.rounds) >= r.settings.MaxRounds {
		r.finish()

		return
	}

	rd := r.startRound()
	r.rounds = append(r.rounds, rd)
	r.currentRoundIndex = len(r.rounds) - 1

	r.phase = PhaseCollectingAnswers
	rd.Status = RoundCollectingAnswers
	r.arm(DeadlineAnswer, now, r.settings.SecondsToAnswer)
}

func (r *room) startVoting(now time.Time) {
	if r.phase != PhaseCollectingAnswers {
		return
	}
	rd := r.currentRound()
	if rd == nil {
		return
	}

	r.disarm()
	r.fillMissingSubmissions(rd)
	shuffle(rd.Submissions)

	r.phase = PhaseVoting
	rd.Status = RoundVoting
	r.arm(DeadlineVote, now, r.settings.SecondsToVote)
}

func (r *room) revealResults(now time.Time) {
	if r.phase != PhaseVoting {
		return
	}
	rd := r.currentRound()
	if rd == nil {
		return
	}

	r.disarm()
	r.phase = PhaseShowingResults
	rd.Status = RoundShowingResults
	r.scoreRound(rd)
	r.arm(DeadlineReveal, now, r.settings.SecondsToReveal)
}

// forceRoundComplete ends the live round as if every quorum had been met.
func (r *room) forceRoundComplete(now time.Time) {
	if r.phase == PhaseCollectingAnswers {
		r.startVoting(now)
	}
	if r.phase == PhaseVoting {
		r.revealResults(now)
	}
}

func (r *room) finish() {
	r.disarm()
	r.phase = PhaseFinalSummary
}

func (r *room) startGame(p *Player, now time.Time) error {
	if !p.IsHost {
		return newError(ErrPermission, "only the host can start the game")
	}
	if r.phase != PhaseLobby && r.phase != PhaseFinalSummary {
		return newError(ErrInvalidPhase, "game already started")
	}
	if n := len(r.connectedPlayers()); n < r.cfg.MinPlayers {
		return newError(ErrValidation, "need at least %d players", r.cfg.MinPlayers)
	}

	if r.phase == PhaseFinalSummary {
		for _, pl := range r.players {
			pl.resetScore()
		}
	}

	r.rounds = nil
	r.currentRoundIndex = -1
	r.deck = NewDeck(r.bank)
	r.nextRound(now)
	r.evaluate(now)

	return nil
}

func (r *room) submitAnswer(p *Player, text string, now time.Time) error {
	if r.phase != PhaseCollectingAnswers {
		return newError(ErrInvalidPhase, "not accepting answers right now")
	}
	rd := r.currentRound()
	if rd == nil {
		return newError(ErrInvalidPhase, "no active round")
	}

	if err := r.recordSubmission(rd, p, text); err != nil {
		return err
	}
	r.evaluate(now)

	return nil
}

func (r *room) submitVote(p *Player, targetID string, now time.Time) error {
	if r.phase != PhaseVoting {
		return newError(ErrInvalidPhase, "not accepting votes right now")
	}
	rd := r.currentRound()
	if rd == nil {
		return newError(ErrInvalidPhase, "no active round")
	}

	if err := r.recordVote(rd, p, targetID); err != nil {
		return err
	}
	r.evaluate(now)

	return nil
}

func (r *room) updateSettings(p *Player, patch SettingsPatch) error {
	if !p.IsHost {
		return newError(ErrPermission, "only the host can update settings")
	}
	if r.phase != PhaseLobby && r.phase != PhaseFinalSummary {
		return newError(ErrInvalidPhase, "settings can only be updated before a game starts")
	}

	r.settings = r.settings.apply(patch, r.cfg.Limits)

	return nil
}

func (r *room) advanceRound(p *Player, now time.Time) error {
	if !p.IsHost {
		return newError(ErrPermission, "only the host can advance")
	}
	if r.phase != PhaseShowingResults {
		return newError(ErrInvalidPhase, "not ready to advance")
	}

	r.nextRound(now)
	r.evaluate(now)

	return nil
}

func (r *room) endGame(p *Player) error {
	if !p.IsHost {
		return newError(ErrPermission, "only the host can end the game")
	}
	if !r.phase.inGame() {
		return newError(ErrInvalidPhase, "no game in progress")
	}

	r.finish()

	return nil
}

// vetoQuestion deals a replacement question before anyone has answered.
func (r *room) vetoQuestion(p *Player, now time.Time) error {
	if !p.IsHost {
		return newError(ErrPermission, "only the host can veto a question")
	}
	if r.phase != PhaseCollectingAnswers {
		return newError(ErrInvalidPhase, "questions can only be vetoed while collecting answers")
	}
	rd := r.currentRound()
	if rd == nil {
		return newError(ErrInvalidPhase, "no active round")
	}
	if len(rd.Submissions) > 0 {
		return newError(ErrConflict, "answers have already been submitted")
	}

	rd.Question = drawQuestion(r, r.player(rd.HotSeatPlayerID))
	r.arm(DeadlineAnswer, now, r.settings.SecondsToAnswer)

	return nil
}
