// Package assistant turns a farmer's question into a language-model answer:
// translate in, compose a prompt from profile and chat history, complete,
// translate back. Collaborator failures are absorbed into substitute replies
// so a dead network never kills the interaction.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeanpaul/krishisakhi/internal/farm"
	"github.com/jeanpaul/krishisakhi/internal/provider"
	"github.com/jeanpaul/krishisakhi/internal/session"
	"github.com/jeanpaul/krishisakhi/internal/translate"
)

const systemInstruction = "You are a helpful farming assistant for Kerala farmers."

const (
	// QuotaMessage is shown when the model reports a rate-limit or quota
	// condition, instead of the raw error.
	QuotaMessage = "The assistant is receiving too many requests right now. Please try again in a little while."
	// errorPrefix leads the generic substitute reply; the failure detail is
	// appended for diagnostic display.
	errorPrefix = "Something went wrong while answering"
)

var (
	// ErrEmptyQuery rejects blank questions before any network call.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNoProfile rejects questions until a profile has been saved, since
	// the prompt is built around it.
	ErrNoProfile = errors.New("no farmer profile saved")
)

// Config carries the assistant's tunables out of the application config.
type Config struct {
	FarmerLang    string // language the farmer types in (e.g. "ml")
	WorkingLang   string // language prompts are composed in (e.g. "en")
	HistoryWindow int    // chat turns included as prompt context
	MaxTokens     int    // response length hint for the model
}

// Assistant assembles queries for the language-model collaborator.
type Assistant struct {
	completer  provider.Completer
	translator translate.Translator
	cfg        Config
	log        zerolog.Logger
}

// New wires the collaborators together.
func New(completer provider.Completer, translator translate.Translator, cfg Config, log zerolog.Logger) *Assistant {
	if cfg.FarmerLang == "" {
		cfg.FarmerLang = "ml"
	}
	if cfg.WorkingLang == "" {
		cfg.WorkingLang = "en"
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 6
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	return &Assistant{completer: completer, translator: translator, cfg: cfg, log: log}
}

// Answer runs the full translate → complete → translate-back pipeline and
// returns the reply text. It never appends to the session; the caller
// decides whether a substitute reply is worth recording.
//
// Validation problems (blank query, missing profile) return an error with no
// side effects. Collaborator failures return a substitute reply and a nil
// error: the interaction continues.
func (a *Assistant) Answer(ctx context.Context, query string, profile farm.Profile, sess *session.Session) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	if profile.Empty() {
		return "", ErrNoProfile
	}

	// Translation failure is recoverable: the model sees the original text.
	translated, err := a.translator.Translate(ctx, query, a.cfg.FarmerLang, a.cfg.WorkingLang)
	if err != nil {
		a.log.Warn().Err(err).Msg("query translation failed, sending original text")
		translated = query
	}

	prompt := buildPrompt(profile, sess.Window(a.cfg.HistoryWindow), translated)

	reply, err := a.completer.Complete(ctx, systemInstruction, prompt, a.cfg.MaxTokens)
	if err != nil {
		if errors.Is(err, provider.ErrRateLimited) {
			a.log.Warn().Err(err).Msg("model rate limited")
			return QuotaMessage, nil
		}
		a.log.Error().Err(err).Msg("model call failed")
		return fmt.Sprintf("%s: %v", errorPrefix, err), nil
	}

	localized, err := a.translator.Translate(ctx, reply, a.cfg.WorkingLang, a.cfg.FarmerLang)
	if err != nil {
		a.log.Warn().Err(err).Msg("reply translation failed, returning untranslated reply")
		return reply, nil
	}
	return localized, nil
}
