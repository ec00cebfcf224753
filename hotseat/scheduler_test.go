/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int {
	return &v
}

func TestGame_EndToEnd(t *testing.T) {
	tb := newTable(t, "Ann", "Bob", "Cam")
	require.NoError(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{MaxRounds: ptr(2)}))
	require.NoError(t, tb.reg.StartGame(conn("Ann")))

	s := tb.snap(t)
	assert.Equal(t, PhaseCollectingAnswers, s.GameState)
	assert.Equal(t, 0, s.CurrentRoundIndex)
	require.NotNil(t, s.Timers.AnswerDeadline)
	assert.Equal(t, tb.clock.Now().Add(45*time.Second).UnixMilli(), *s.Timers.AnswerDeadline)

	rd := tb.round(t)
	assert.Equal(t, tb.ids["Ann"], rd.HotSeatPlayerID)
	assert.Equal(t, RoundCollectingAnswers, rd.Status)
	assert.True(t, tb.player(t, "Ann").IsHotSeat)

	require.NoError(t, tb.reg.SubmitAnswer(conn("Ann"), "pizza"))
	require.NoError(t, tb.reg.SubmitAnswer(conn("Bob"), "tacos"))
	assert.Equal(t, PhaseCollectingAnswers, tb.snap(t).GameState)
	require.NoError(t, tb.reg.SubmitAnswer(conn("Cam"), "sushi"))

	s = tb.snap(t)
	assert.Equal(t, PhaseVoting, s.GameState)
	assert.Nil(t, s.Timers.AnswerDeadline)
	require.NotNil(t, s.Timers.VoteDeadline)
	rd = tb.round(t)
	assert.Len(t, rd.Submissions, 3)
	assert.Equal(t, 1, realCount(rd))

	require.NoError(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]))
	require.NoError(t, tb.reg.SubmitVote(conn("Cam"), tb.ids["Bob"]))

	s = tb.snap(t)
	assert.Equal(t, PhaseShowingResults, s.GameState)
	assert.Nil(t, s.Timers.VoteDeadline)
	require.NotNil(t, s.Timers.RevealDeadline)
	assert.Equal(t, RoundComplete, tb.round(t).Status)

	ann, bob, cam := tb.player(t, "Ann"), tb.player(t, "Bob"), tb.player(t, "Cam")
	assert.Equal(t, 1, ann.Score)
	assert.Equal(t, 3, bob.Score)
	assert.Equal(t, 1, bob.NumCorrectGuesses)
	assert.Equal(t, 1, bob.NumPeopleTricked)
	assert.Equal(t, 0, cam.Score)

	tb.tick(10 * time.Second)

	s = tb.snap(t)
	assert.Equal(t, PhaseCollectingAnswers, s.GameState)
	assert.Equal(t, 1, s.CurrentRoundIndex)
	assert.Equal(t, tb.ids["Bob"], tb.round(t).HotSeatPlayerID)

	tb.tick(45 * time.Second)
	assert.Equal(t, PhaseVoting, tb.snap(t).GameState)
	tb.tick(30 * time.Second)
	assert.Equal(t, PhaseShowingResults, tb.snap(t).GameState)
	tb.tick(10 * time.Second)

	s = tb.snap(t)
	assert.Equal(t, PhaseFinalSummary, s.GameState)
	assert.Len(t, s.Rounds, 2)
	assert.Equal(t, Timers{}, s.Timers)
}

func TestGame_RoundRobinGivesEveryoneTheHotSeat(t *testing.T) {
	names := []string{"Ann", "Bob", "Cam", "Dee"}
	tb := newTable(t, names...)
	require.NoError(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{MaxRounds: ptr(len(names))}))
	require.NoError(t, tb.reg.StartGame(conn("Ann")))

	seen := make(map[string]int)
	for i := range names {
		seen[tb.name(t, tb.round(t).HotSeatPlayerID)]++

		tb.tick(45 * time.Second)
		tb.tick(30 * time.Second)
		require.Equal(t, PhaseShowingResults, tb.snap(t).GameState)

		if i < len(names)-1 {
			require.NoError(t, tb.reg.AdvanceRound(conn("Ann")))
		}
	}

	for _, name := range names {
		assert.Equal(t, 1, seen[name], "hot seat count for %s", name)
	}

	require.NoError(t, tb.reg.AdvanceRound(conn("Ann")))
	assert.Equal(t, PhaseFinalSummary, tb.snap(t).GameState)
}

func TestGame_QuorumAndDeadlineInSameTickAdvanceOnce(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")

	require.NoError(t, tb.reg.SubmitAnswer(conn("Ann"), "truth"))
	require.NoError(t, tb.reg.SubmitAnswer(conn("Bob"), "bluff"))

	now := tb.clock.Advance(45 * time.Second)
	require.NoError(t, tb.reg.SubmitAnswer(conn("Cam"), "another bluff"))

	s := tb.snap(t)
	require.Equal(t, PhaseVoting, s.GameState)
	require.NotNil(t, s.Timers.VoteDeadline)
	assert.Equal(t, now.Add(30*time.Second).UnixMilli(), *s.Timers.VoteDeadline)

	published := tb.rec.count()
	tb.reg.Tick(now)

	assert.Equal(t, published, tb.rec.count())
	s = tb.snap(t)
	assert.Equal(t, PhaseVoting, s.GameState)
	assert.Len(t, s.Rounds, 1)
	rd := tb.round(t)
	assert.Len(t, rd.Submissions, 3)
	for _, sub := range rd.Submissions {
		assert.NotEqual(t, placeholderAnswer, sub.Text)
	}
}

func TestGame_AnswerDeadlineFillsPlaceholders(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")
	require.NoError(t, tb.reg.SubmitAnswer(conn("Bob"), "bluff"))

	tb.tick(44 * time.Second)
	assert.Equal(t, PhaseCollectingAnswers, tb.snap(t).GameState)

	tb.tick(time.Second)
	require.Equal(t, PhaseVoting, tb.snap(t).GameState)

	rd := tb.round(t)
	require.Len(t, rd.Submissions, 3)
	assert.Equal(t, 1, realCount(rd))
	for _, sub := range rd.Submissions {
		switch sub.PlayerID {
		case tb.ids["Ann"]:
			assert.True(t, sub.IsRealAnswer)
			assert.Equal(t, placeholderHotSeatAnswer, sub.Text)
		case tb.ids["Bob"]:
			assert.Equal(t, "bluff", sub.Text)
		case tb.ids["Cam"]:
			assert.Equal(t, placeholderAnswer, sub.Text)
		}
	}

	err := tb.reg.SubmitAnswer(conn("Cam"), "too late")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestGame_VoteDeadline(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")
	tb.tick(45 * time.Second)
	require.NoError(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]))

	tb.tick(30 * time.Second)

	assert.Equal(t, PhaseShowingResults, tb.snap(t).GameState)
	assert.Equal(t, 2, tb.player(t, "Bob").Score)
	assert.Equal(t, 1, tb.player(t, "Ann").Score)
	assert.Equal(t, 0, tb.player(t, "Cam").Score)
}

func TestGame_QuorumLossDuringVotingEndsGame(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")
	for _, name := range []string{"Ann", "Bob", "Cam"} {
		require.NoError(t, tb.reg.SubmitAnswer(conn(name), "answer from "+name))
	}
	require.NoError(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Cam"]))

	tb.reg.Leave(conn("Cam"))

	s := tb.snap(t)
	assert.Equal(t, PhaseFinalSummary, s.GameState)
	assert.Equal(t, Timers{}, s.Timers)

	tb.tick(time.Minute)

	s = tb.snap(t)
	assert.Equal(t, PhaseFinalSummary, s.GameState)
	rd := tb.round(t)
	assert.Equal(t, RoundVoting, rd.Status)
	assert.Len(t, rd.Votes, 1)
	for _, p := range s.Players {
		assert.Zero(t, p.Score, p.Name)
	}
}

func TestGame_HotSeatLeavingForcesRoundComplete(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam", "Dee")
	require.NoError(t, tb.reg.SubmitAnswer(conn("Bob"), "bluff"))

	tb.reg.Leave(conn("Ann"))

	s := tb.snap(t)
	require.Equal(t, PhaseShowingResults, s.GameState)
	require.NotNil(t, s.Timers.RevealDeadline)
	assert.Equal(t, 1, hostCount(s))
	assert.True(t, tb.player(t, "Bob").IsHost)
	assert.False(t, tb.player(t, "Ann").Connected)

	rd := tb.round(t)
	assert.Equal(t, 1, realCount(rd))
	for _, sub := range rd.Submissions {
		if sub.IsRealAnswer {
			assert.Equal(t, tb.ids["Ann"], sub.PlayerID)
		}
	}

	tb.tick(10 * time.Second)

	s = tb.snap(t)
	assert.Equal(t, PhaseCollectingAnswers, s.GameState)
	// eligible is [Bob, Cam, Dee] and one round was played
	assert.Equal(t, tb.ids["Cam"], tb.round(t).HotSeatPlayerID)
}

func TestGame_HotSeatLeavingDuringVotingScoresRound(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam", "Dee")
	for _, name := range []string{"Ann", "Bob", "Cam", "Dee"} {
		require.NoError(t, tb.reg.SubmitAnswer(conn(name), "answer from "+name))
	}
	require.NoError(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]))

	tb.reg.Leave(conn("Ann"))

	assert.Equal(t, PhaseShowingResults, tb.snap(t).GameState)
	assert.Equal(t, 2, tb.player(t, "Bob").Score)
	assert.Equal(t, 1, tb.player(t, "Ann").Score)
}

func TestGame_NonHotSeatLeavingCanCompleteQuorum(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam", "Dee")
	for _, name := range []string{"Ann", "Bob", "Cam"} {
		require.NoError(t, tb.reg.SubmitAnswer(conn(name), "answer from "+name))
	}

	tb.reg.Leave(conn("Dee"))

	assert.Equal(t, PhaseVoting, tb.snap(t).GameState)
	assert.Len(t, tb.round(t).Submissions, 3)
}

func TestGame_ActionsOutsideTheirPhase(t *testing.T) {
	tb := newTable(t, "Ann", "Bob", "Cam")

	assert.ErrorIs(t, tb.reg.SubmitAnswer(conn("Bob"), "early"), ErrInvalidPhase)
	assert.ErrorIs(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]), ErrInvalidPhase)
	assert.ErrorIs(t, tb.reg.AdvanceRound(conn("Ann")), ErrInvalidPhase)
	assert.ErrorIs(t, tb.reg.EndGame(conn("Ann")), ErrInvalidPhase)

	require.NoError(t, tb.reg.StartGame(conn("Ann")))
	assert.ErrorIs(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]), ErrInvalidPhase)
	assert.ErrorIs(t, tb.reg.StartGame(conn("Ann")), ErrInvalidPhase)
	assert.ErrorIs(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{MaxRounds: ptr(3)}), ErrInvalidPhase)
}

func TestGame_HostOnlyActions(t *testing.T) {
	tb := newTable(t, "Ann", "Bob", "Cam")

	assert.ErrorIs(t, tb.reg.StartGame(conn("Bob")), ErrPermission)
	assert.ErrorIs(t, tb.reg.UpdateSettings(conn("Bob"), SettingsPatch{}), ErrPermission)

	require.NoError(t, tb.reg.StartGame(conn("Ann")))
	assert.ErrorIs(t, tb.reg.EndGame(conn("Bob")), ErrPermission)
	assert.ErrorIs(t, tb.reg.VetoQuestion(conn("Bob")), ErrPermission)
	assert.ErrorIs(t, tb.reg.AdvanceRound(conn("Bob")), ErrPermission)
}

func TestGame_StartNeedsMinimumPlayers(t *testing.T) {
	tb := newTable(t, "Ann", "Bob")

	err := tb.reg.StartGame(conn("Ann"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, PhaseLobby, tb.snap(t).GameState)
}

func TestGame_HostAdvanceSkipsReveal(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")
	tb.tick(45 * time.Second)
	tb.tick(30 * time.Second)
	require.Equal(t, PhaseShowingResults, tb.snap(t).GameState)

	require.NoError(t, tb.reg.AdvanceRound(conn("Ann")))

	s := tb.snap(t)
	assert.Equal(t, PhaseCollectingAnswers, s.GameState)
	assert.Nil(t, s.Timers.RevealDeadline)
	require.NotNil(t, s.Timers.AnswerDeadline)

	// the stale reveal deadline must not advance the new round
	tb.tick(10 * time.Second)
	assert.Equal(t, PhaseCollectingAnswers, tb.snap(t).GameState)
	assert.Equal(t, 1, tb.snap(t).CurrentRoundIndex)
}

func TestGame_EndGame(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")

	require.NoError(t, tb.reg.EndGame(conn("Ann")))

	s := tb.snap(t)
	assert.Equal(t, PhaseFinalSummary, s.GameState)
	assert.Equal(t, Timers{}, s.Timers)
}

func TestGame_PlayAgainResetsScores(t *testing.T) {
	tb := newTable(t, "Ann", "Bob", "Cam")
	require.NoError(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{MaxRounds: ptr(1)}))
	require.NoError(t, tb.reg.StartGame(conn("Ann")))
	tb.tick(45 * time.Second)
	require.NoError(t, tb.reg.SubmitVote(conn("Bob"), tb.ids["Ann"]))
	tb.tick(30 * time.Second)
	tb.tick(10 * time.Second)
	require.Equal(t, PhaseFinalSummary, tb.snap(t).GameState)
	require.Equal(t, 2, tb.player(t, "Bob").Score)

	require.NoError(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{SecondsToAnswer: ptr(60)}))
	require.NoError(t, tb.reg.StartGame(conn("Ann")))

	s := tb.snap(t)
	assert.Equal(t, PhaseCollectingAnswers, s.GameState)
	assert.Len(t, s.Rounds, 1)
	assert.Equal(t, 0, s.CurrentRoundIndex)
	assert.Equal(t, tb.ids["Ann"], tb.round(t).HotSeatPlayerID)
	assert.Equal(t, tb.clock.Now().Add(60*time.Second).UnixMilli(), *s.Timers.AnswerDeadline)
	for _, p := range s.Players {
		assert.Zero(t, p.Score)
		assert.Zero(t, p.NumCorrectGuesses)
		assert.Zero(t, p.NumPeopleTricked)
	}
}

func TestGame_UpdateSettingsClamps(t *testing.T) {
	tb := newTable(t, "Ann", "Bob", "Cam")

	require.NoError(t, tb.reg.UpdateSettings(conn("Ann"), SettingsPatch{
		MaxRounds:       ptr(99),
		SecondsToAnswer: ptr(1),
	}))

	assert.Equal(t, Settings{
		MaxRounds:       10,
		SecondsToAnswer: 15,
		SecondsToVote:   30,
		SecondsToReveal: 10,
	}, tb.snap(t).Settings)
}

func TestGame_VetoQuestion(t *testing.T) {
	tb := startedTable(t, "Ann", "Bob", "Cam")
	before := tb.round(t).Question

	now := tb.clock.Advance(5 * time.Second)
	require.NoError(t, tb.reg.VetoQuestion(conn("Ann")))

	s := tb.snap(t)
	assert.NotEqual(t, before, tb.round(t).Question)
	assert.Equal(t, now.Add(45*time.Second).UnixMilli(), *s.Timers.AnswerDeadline)

	require.NoError(t, tb.reg.SubmitAnswer(conn("Bob"), "bluff"))
	assert.ErrorIs(t, tb.reg.VetoQuestion(conn("Ann")), ErrConflict)
}
