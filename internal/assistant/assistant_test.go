package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/krishisakhi/internal/farm"
	"github.com/jeanpaul/krishisakhi/internal/provider"
	"github.com/jeanpaul/krishisakhi/internal/session"
)

// mockCompleter implements provider.Completer.
type mockCompleter struct {
	reply      string
	err        error
	gotSystem  string
	gotPrompt  string
	gotMaxToks int
}

func (m *mockCompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	m.gotSystem = system
	m.gotPrompt = prompt
	m.gotMaxToks = maxTokens
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// mockTranslator implements translate.Translator by tagging text with the
// direction, so tests can see which hops ran.
type mockTranslator struct {
	err   error
	calls []string
}

func (m *mockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.calls = append(m.calls, source+">"+target)
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("[%s>%s]%s", source, target, text), nil
}

func testProfile() farm.Profile {
	return farm.Profile{Name: "Ravi", Crop: "Rice", Soil: "Clay", Land: "2"}
}

func newAssistant(c provider.Completer, tr *mockTranslator) *Assistant {
	return New(c, tr, Config{FarmerLang: "ml", WorkingLang: "en", HistoryWindow: 3, MaxTokens: 256}, zerolog.Nop())
}

func TestAnswerHappyPath(t *testing.T) {
	completer := &mockCompleter{reply: "Sow after the monsoon."}
	tr := &mockTranslator{}
	a := newAssistant(completer, tr)
	sess := session.New()
	sess.AppendTurn("earlier q", "earlier a")

	reply, err := a.Answer(context.Background(), "എപ്പോൾ വിതയ്ക്കണം?", testProfile(), sess)
	require.NoError(t, err)

	// Reply came back through the en>ml hop.
	assert.Equal(t, "[en>ml]Sow after the monsoon.", reply)
	assert.Equal(t, []string{"ml>en", "en>ml"}, tr.calls)

	// Prompt carries profile, history, and the translated question.
	assert.Equal(t, "You are a helpful farming assistant for Kerala farmers.", completer.gotSystem)
	assert.Contains(t, completer.gotPrompt, "Name: Ravi")
	assert.Contains(t, completer.gotPrompt, "Main crop: Rice")
	assert.Contains(t, completer.gotPrompt, "Farmer: earlier q")
	assert.Contains(t, completer.gotPrompt, "Assistant: earlier a")
	assert.Contains(t, completer.gotPrompt, "[ml>en]എപ്പോൾ വിതയ്ക്കണം?")
	assert.Equal(t, 256, completer.gotMaxToks)
}

func TestAnswerRejectsBlankQuery(t *testing.T) {
	completer := &mockCompleter{}
	tr := &mockTranslator{}
	a := newAssistant(completer, tr)

	for _, q := range []string{"", "   "} {
		_, err := a.Answer(context.Background(), q, testProfile(), session.New())
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	// No collaborator was touched.
	assert.Empty(t, tr.calls)
	assert.Equal(t, "", completer.gotPrompt)
}

func TestAnswerRequiresProfile(t *testing.T) {
	a := newAssistant(&mockCompleter{}, &mockTranslator{})

	_, err := a.Answer(context.Background(), "question", farm.Profile{}, session.New())
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestAnswerRateLimitReturnsQuotaMessage(t *testing.T) {
	completer := &mockCompleter{err: fmt.Errorf("openai: %w: slow down", provider.ErrRateLimited)}
	a := newAssistant(completer, &mockTranslator{})
	sess := session.New()

	reply, err := a.Answer(context.Background(), "question", testProfile(), sess)

	// Absorbed: substitute reply, no error, no panic.
	require.NoError(t, err)
	assert.Equal(t, QuotaMessage, reply)
	assert.NotContains(t, reply, "slow down")

	// The session is left for the caller to decide about.
	assert.Equal(t, 0, sess.Len())
}

func TestAnswerGenericFailureCarriesDetail(t *testing.T) {
	completer := &mockCompleter{err: errors.New("connection refused")}
	a := newAssistant(completer, &mockTranslator{})

	reply, err := a.Answer(context.Background(), "question", testProfile(), session.New())

	require.NoError(t, err)
	assert.Contains(t, reply, "Something went wrong")
	assert.Contains(t, reply, "connection refused")
}

func TestAnswerTranslationFailureFallsBack(t *testing.T) {
	completer := &mockCompleter{reply: "Answer text."}
	tr := &mockTranslator{err: errors.New("translate down")}
	a := newAssistant(completer, tr)

	reply, err := a.Answer(context.Background(), "ചോദ്യം", testProfile(), session.New())
	require.NoError(t, err)

	// Inbound hop failed: the model saw the original text.
	assert.Contains(t, completer.gotPrompt, "Farmer asked: ചോദ്യം")
	// Outbound hop failed too: the untranslated reply comes back.
	assert.Equal(t, "Answer text.", reply)
}

func TestAnswerWindowsHistory(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	a := newAssistant(completer, &mockTranslator{})
	sess := session.New()
	for i := 1; i <= 10; i++ {
		sess.AppendTurn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	_, err := a.Answer(context.Background(), "question", testProfile(), sess)
	require.NoError(t, err)

	// Window is 3: old turns stay out of the prompt.
	assert.NotContains(t, completer.gotPrompt, "q7")
	assert.Contains(t, completer.gotPrompt, "q8")
	assert.Contains(t, completer.gotPrompt, "q10")
	assert.Equal(t, 1, strings.Count(completer.gotPrompt, "Conversation so far:"))
}
