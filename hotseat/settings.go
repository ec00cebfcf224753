/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import "time"

// Settings are the per-room knobs the host may change between games.
type Settings struct {
	MaxRounds       int `json:"maxRounds"`
	SecondsToAnswer int `json:"secondsToAnswer"`
	SecondsToVote   int `json:"secondsToVote"`
	SecondsToReveal int `json:"secondsToReveal"`
}

// SettingsPatch is a partial update; nil fields keep their current value.
type SettingsPatch struct {
	MaxRounds       *int `json:"maxRounds,omitempty"`
	SecondsToAnswer *int `json:"secondsToAnswer,omitempty"`
	SecondsToVote   *int `json:"secondsToVote,omitempty"`
	SecondsToReveal *int `json:"secondsToReveal,omitempty"`
}

// Range is an inclusive bound.
type Range struct {
	Min int
	Max int
}

func (r Range) clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Limits bounds every field of Settings.
type Limits struct {
	MaxRounds       Range
	SecondsToAnswer Range
	SecondsToVote   Range
	SecondsToReveal Range
}

// GameConfig is the process-wide configuration shared by every room.
type GameConfig struct {
	MinPlayers      int
	Defaults        Settings
	Limits          Limits
	MaxAnswerLength int
	MaxNameLength   int
	SessionTimeout  time.Duration
	TickInterval    time.Duration
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		MinPlayers: 3,
		Defaults: Settings{
			MaxRounds:       5,
			SecondsToAnswer: 45,
			SecondsToVote:   30,
			SecondsToReveal: 10,
		},
		Limits: Limits{
			MaxRounds:       Range{Min: 1, Max: 10},
			SecondsToAnswer: Range{Min: 15, Max: 120},
			SecondsToVote:   Range{Min: 10, Max: 90},
			SecondsToReveal: Range{Min: 5, Max: 45},
		},
		MaxAnswerLength: 160,
		MaxNameLength:   24,
		SessionTimeout:  60 * time.Minute,
		TickInterval:    250 * time.Millisecond,
	}
}

// apply merges p into s, clamping every provided value to its limit.
func (s Settings) apply(p SettingsPatch, l Limits) Settings {
	pick := func(v *int, cur int, r Range) int {
		if v == nil {
			return cur
		}
		return r.clamp(*v)
	}

	return Settings{
		MaxRounds:       pick(p.MaxRounds, s.MaxRounds, l.MaxRounds),
		SecondsToAnswer: pick(p.SecondsToAnswer, s.SecondsToAnswer, l.SecondsToAnswer),
		SecondsToVote:   pick(p.SecondsToVote, s.SecondsToVote, l.SecondsToVote),
		SecondsToReveal: pick(p.SecondsToReveal, s.SecondsToReveal, l.SecondsToReveal),
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
