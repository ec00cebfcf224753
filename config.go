/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/hotseat/hotseat"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type bounded struct {
	value int
	min   int
	max   int
}

func (b bounded) validate(name string) error {
	switch {
	case b.min < 1:
		return fmt.Errorf("--%s-min must be at least 1: %d", name, b.min)
	case b.min > b.max:
		return fmt.Errorf("--%s-min (%d) must not exceed --%s-max (%d)", name, b.min, name, b.max)
	case b.value < b.min || b.value > b.max:
		return fmt.Errorf("--%s must be between %d-%d inclusive: %d", name, b.min, b.max, b.value)
	}

	return nil
}

func (b bounded) limit() hotseat.Range {
	return hotseat.Range{Min: b.min, Max: b.max}
}

type Config struct {
	bind           string
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	tick            time.Duration
	minPlayers      int
	rounds          bounded
	answerSeconds   bounded
	voteSeconds     bounded
	revealSeconds   bounded
	maxAnswerLength int
	maxNameLength   int
	questions       string
	actionRate      float64
	actionBurst     int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.minPlayers < 2 {
		return fmt.Errorf("--min-players must be at least 2: %d", c.minPlayers)
	}
	if c.tick <= 0 {
		return fmt.Errorf("--tick must be positive: %s", c.tick)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("--session-timeout must not be negative: %s", c.sessionTimeout)
	}
	if c.maxAnswerLength < 1 {
		return fmt.Errorf("--max-answer-length must be at least 1: %d", c.maxAnswerLength)
	}
	if c.maxNameLength < 1 {
		return fmt.Errorf("--max-name-length must be at least 1: %d", c.maxNameLength)
	}
	if c.actionRate <= 0 {
		return fmt.Errorf("--action-rate must be positive: %v", c.actionRate)
	}
	if c.actionBurst < 1 {
		return fmt.Errorf("--action-burst must be at least 1: %d", c.actionBurst)
	}

	for _, f := range []struct {
		name string
		b    bounded
	}{
		{"rounds", c.rounds},
		{"answer-seconds", c.answerSeconds},
		{"vote-seconds", c.voteSeconds},
		{"reveal-seconds", c.revealSeconds},
	} {
		if err := f.b.validate(f.name); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) gameConfig() hotseat.GameConfig {
	return hotseat.GameConfig{
		MinPlayers: c.minPlayers,
		Defaults: hotseat.Settings{
			MaxRounds:       c.rounds.value,
			SecondsToAnswer: c.answerSeconds.value,
			SecondsToVote:   c.voteSeconds.value,
			SecondsToReveal: c.revealSeconds.value,
		},
		Limits: hotseat.Limits{
			MaxRounds:       c.rounds.limit(),
			SecondsToAnswer: c.answerSeconds.limit(),
			SecondsToVote:   c.voteSeconds.limit(),
			SecondsToReveal: c.revealSeconds.limit(),
		},
		MaxAnswerLength: c.maxAnswerLength,
		MaxNameLength:   c.maxNameLength,
		SessionTimeout:  c.sessionTimeout,
		TickInterval:    c.tick,
	}
}

func boundedFlags(fs *pflag.FlagSet, b *bounded, name, usage string, value int, limit hotseat.Range) {
	env := "HOTSEAT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))

	fs.IntVar(&b.value, name, value, fmt.Sprintf("default %s (env: %s)", usage, env))
	fs.IntVar(&b.min, name+"-min", limit.Min, fmt.Sprintf("minimum %s a host may choose (env: %s_MIN)", usage, env))
	fs.IntVar(&b.max, name+"-max", limit.Max, fmt.Sprintf("maximum %s a host may choose (env: %s_MAX)", usage, env))
}

func newCmd(cfg *Config) *cobra.Command {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HOTSEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hotseat",
		Short:         "A party game where everyone tries to answer like the player in the hot seat.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := hotseat.DefaultGameConfig()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HOTSEAT_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HOTSEAT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HOTSEAT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HOTSEAT_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", defaults.SessionTimeout, "time before abandoned rooms are removed, 0 to disable (env: HOTSEAT_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HOTSEAT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HOTSEAT_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HOTSEAT_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HOTSEAT_VERSION)")

	fs.DurationVar(&cfg.tick, "tick", defaults.TickInterval, "how often round deadlines are checked (env: HOTSEAT_TICK)")
	fs.IntVar(&cfg.minPlayers, "min-players", defaults.MinPlayers, "connected players needed to start or continue a game (env: HOTSEAT_MIN_PLAYERS)")
	boundedFlags(fs, &cfg.rounds, "rounds", "rounds per game", defaults.Defaults.MaxRounds, defaults.Limits.MaxRounds)
	boundedFlags(fs, &cfg.answerSeconds, "answer-seconds", "seconds to answer", defaults.Defaults.SecondsToAnswer, defaults.Limits.SecondsToAnswer)
	boundedFlags(fs, &cfg.voteSeconds, "vote-seconds", "seconds to vote", defaults.Defaults.SecondsToVote, defaults.Limits.SecondsToVote)
	boundedFlags(fs, &cfg.revealSeconds, "reveal-seconds", "seconds to show results", defaults.Defaults.SecondsToReveal, defaults.Limits.SecondsToReveal)
	fs.IntVar(&cfg.maxAnswerLength, "max-answer-length", defaults.MaxAnswerLength, "maximum characters per answer (env: HOTSEAT_MAX_ANSWER_LENGTH)")
	fs.IntVar(&cfg.maxNameLength, "max-name-length", defaults.MaxNameLength, "maximum characters per player name (env: HOTSEAT_MAX_NAME_LENGTH)")
	fs.StringVar(&cfg.questions, "questions", "", "file of question templates, one per line (env: HOTSEAT_QUESTIONS)")
	fs.Float64Var(&cfg.actionRate, "action-rate", 5, "actions per second allowed per connection (env: HOTSEAT_ACTION_RATE)")
	fs.IntVar(&cfg.actionBurst, "action-burst", 10, "burst of actions allowed per connection (env: HOTSEAT_ACTION_BURST)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hotseat v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
