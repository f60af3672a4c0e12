// Command krishisakhi is the terminal shell over the Krishi Sakhi core:
// farmer profile, activity log, advisory, weather, and the chat assistant.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeanpaul/krishisakhi/internal/advisory"
	"github.com/jeanpaul/krishisakhi/internal/assistant"
	"github.com/jeanpaul/krishisakhi/internal/config"
	"github.com/jeanpaul/krishisakhi/internal/farm"
	"github.com/jeanpaul/krishisakhi/internal/provider"
	"github.com/jeanpaul/krishisakhi/internal/store"
	"github.com/jeanpaul/krishisakhi/internal/translate"
	"github.com/jeanpaul/krishisakhi/internal/weather"
)

// app holds everything the commands share, wired once in PersistentPreRunE.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	profiles *farm.Profiles
	activity *farm.Log
	engine   *advisory.Engine
}

var (
	shared  app
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "krishisakhi",
	Short:         "AI-powered farming assistant for Kerala farmers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		shared.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		shared.cfg = cfg

		st, err := store.New(cfg.DataDir)
		if err != nil {
			return err
		}
		shared.profiles, err = farm.NewProfiles(st, cfg.ProfileFile)
		if err != nil {
			return err
		}
		shared.activity, err = farm.OpenLog(st, cfg.LogFile, time.Now)
		if err != nil {
			return err
		}

		shared.engine = advisory.NewEngine()
		if cfg.AdvisoryRules != "" {
			rules, err := advisory.LoadRules(cfg.AdvisoryRules)
			if err != nil {
				shared.log.Warn().Err(err).Msg("advisory rule override rejected, using defaults")
			} else {
				shared.engine = advisory.NewEngineWithRules(rules)
			}
		}
		return nil
	},
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.TimeoutSeconds) * time.Second
}

// newAssistant wires the chat pipeline on demand; only chat commands need
// the network collaborators.
func (a *app) newAssistant() *assistant.Assistant {
	var completer provider.Completer = provider.NewOpenAI(
		a.cfg.Provider.BaseURL, a.cfg.Provider.APIKey, a.cfg.Provider.Model,
		a.timeout(), a.log,
	)
	completer = provider.WithRetry(completer, a.cfg.MaxRetries)
	translator := translate.NewGoogle(a.cfg.Translator.BaseURL, a.timeout())
	return assistant.New(completer, translator, assistant.Config{
		FarmerLang:    a.cfg.Language.Farmer,
		WorkingLang:   a.cfg.Language.Working,
		HistoryWindow: a.cfg.HistoryWindow,
		MaxTokens:     a.cfg.MaxTokens,
	}, a.log)
}

func (a *app) newWeather() (*weather.Client, *weather.Locator) {
	client := weather.NewClient(a.cfg.Weather.APIKey, a.timeout(), a.log)
	locator := weather.NewLocator(a.cfg.Weather.DefaultLat, a.cfg.Weather.DefaultLon, a.timeout(), a.log)
	return client, locator
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(profileCmd, logCmd, adviceCmd, weatherCmd, askCmd, chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
