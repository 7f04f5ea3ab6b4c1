// Package advisor runs chat turns: it screens the message for personal data,
// ranks catalog programs, composes the reply and tracks the user's interests.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/egor/engadvisor/feedback"
	"github.com/egor/engadvisor/llm"
	"github.com/egor/engadvisor/metrics"
	"github.com/egor/engadvisor/models"
	"github.com/egor/engadvisor/pii"
	"github.com/egor/engadvisor/scorer"
	"github.com/egor/engadvisor/session"
)

// EmptyInputPrompt answers a blank message.
const EmptyInputPrompt = "Please tell me about your interests so I can help you find the right UMD engineering program!"

// FeedbackSaved is the status returned after a feedback row was written.
const FeedbackSaved = "✅ Thank you! Your feedback has been saved."

// Turn outcomes
const (
	OutcomeEmpty    = "empty"
	OutcomeBlocked  = "blocked"
	OutcomeAnswered = "answered"
	OutcomeDegraded = "degraded" // answered with a generation apology
)

// TurnResult is what the UI needs to render after a turn.
type TurnResult struct {
	History    []models.Exchange `json:"history"`
	Input      string            `json:"input"` // always cleared
	Interests  string            `json:"interests"`
	Response   string            `json:"response"`
	Outcome    string            `json:"outcome"`
	Categories []string          `json:"piiCategories,omitempty"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScreener overrides the default PII screener.
func WithScreener(s *pii.Screener) Option {
	return func(o *Orchestrator) { o.screener = s }
}

// WithWeights overrides the default scoring weights.
func WithWeights(w scorer.Weights) Option {
	return func(o *Orchestrator) { o.weights = w }
}

// WithMetrics records turns on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithLogger overrides the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithHistoryFile sets where SaveHistory writes.
func WithHistoryFile(path string) Option {
	return func(o *Orchestrator) { o.historyFile = path }
}

// WithFeedbackSink sets where SubmitFeedback appends.
func WithFeedbackSink(s *feedback.Sink) Option {
	return func(o *Orchestrator) { o.feedback = s }
}

// Orchestrator processes turns for any number of sessions. Per-session state
// lives in the *session.Profile passed to each call.
type Orchestrator struct {
	programs []models.Program
	composer *llm.Composer
	screener *pii.Screener
	weights  scorer.Weights
	metrics  *metrics.Recorder
	logger   *zap.Logger

	historyFile string
	historyMu   sync.Mutex
	feedback    *feedback.Sink
}

// New creates an Orchestrator ranking programs and generating narratives with gen.
func New(programs []models.Program, gen llm.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		programs:    programs,
		composer:    llm.NewComposer(gen),
		screener:    pii.Default(),
		weights:     scorer.DefaultWeights(),
		logger:      zap.NewNop(),
		historyFile: "chat_history.txt",
		feedback:    feedback.NewSink("chatbot_feedback.csv"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit runs one turn for profile. It never fails; generation problems are
// reported in the response text. history is not modified.
func (o *Orchestrator) Submit(ctx context.Context, profile *session.Profile, message string, history []models.Exchange) TurnResult {
	t := newTurn()
	log := o.logger.With(zap.String("session", profile.ID))

	if strings.TrimSpace(message) == "" {
		t.moveTo(StateDone)
		o.metrics.Turn(OutcomeEmpty)
		log.Debug("empty message", zap.String("path", t.trace()))
		if history == nil {
			history = []models.Exchange{}
		}
		return TurnResult{
			History:   history,
			Interests: profile.Render(),
			Response:  EmptyInputPrompt,
			Outcome:   OutcomeEmpty,
		}
	}

	t.moveTo(StateScreening)
	if categories := o.screener.Detect(message); len(categories) > 0 {
		t.moveTo(StateBlocked)
		labels := pii.Labels(categories)
		redacted := o.screener.Redact(message)
		alert := PrivacyAlert(labels)

		t.moveTo(StateDone)
		o.metrics.PIIDetected(labels...)
		o.metrics.Turn(OutcomeBlocked)
		log.Info("message blocked for personal data", zap.Strings("categories", labels))

		return TurnResult{
			History:    appendExchange(history, redacted, alert),
			Interests:  profile.Render(),
			Response:   alert,
			Outcome:    OutcomeBlocked,
			Categories: labels,
		}
	}

	t.moveTo(StateScoring)
	matches := o.weights.Score(message, o.programs)
	log.Debug("programs scored", zap.Int("matches", len(matches)))

	t.moveTo(StateComposing)
	reply := o.composer.Compose(ctx, message, history, matches)
	outcome := OutcomeAnswered
	o.metrics.Generation(generationResult(reply.Err), reply.Duration)
	if reply.Err != nil {
		outcome = OutcomeDegraded
		log.Warn("generation failed", zap.Error(reply.Err), zap.Duration("duration", reply.Duration))
	}

	t.moveTo(StateUpdating)
	if added := profile.UpdateInterests(message); len(added) > 0 {
		log.Debug("interests added", zap.Strings("interests", added))
	}

	t.moveTo(StateDone)
	o.metrics.Turn(outcome)
	log.Debug("turn done", zap.String("path", t.trace()), zap.String("outcome", outcome))

	return TurnResult{
		History:   appendExchange(history, message, reply.Text),
		Interests: profile.Render(),
		Response:  reply.Text,
		Outcome:   outcome,
	}
}

// PrivacyAlert is the response given instead of a narrative when personal
// data was found.
func PrivacyAlert(categories []string) string {
	return fmt.Sprintf("⚠️ Privacy Alert: We detected possible sensitive information in your message (%s). "+
		"It has been removed for your safety.\n\nPlease rephrase your message without personal details.\n",
		strings.Join(categories, ", "))
}

// ViewHistory renders the conversation as plain text.
func (o *Orchestrator) ViewHistory(history []models.Exchange) string {
	blocks := make([]string, len(history))
	for i, ex := range history {
		blocks[i] = "👤 " + ex.User + "\n🤖 " + ex.Bot
	}
	return strings.Join(blocks, "\n\n")
}

// SaveHistory overwrites the history file with the conversation.
func (o *Orchestrator) SaveHistory(history []models.Exchange) (string, error) {
	var b strings.Builder
	for _, ex := range history {
		fmt.Fprintf(&b, "User: %s\nBot: %s\n\n", ex.User, ex.Bot)
	}

	o.historyMu.Lock()
	defer o.historyMu.Unlock()

	if err := os.WriteFile(o.historyFile, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("save chat history: %w", err)
	}
	o.logger.Debug("chat history saved", zap.String("file", o.historyFile), zap.Int("exchanges", len(history)))
	return "✅ Chat history saved to " + o.historyFile, nil
}

// SubmitFeedback stores a rating of botResponse along with the current interests.
func (o *Orchestrator) SubmitFeedback(profile *session.Profile, userMessage, botResponse, rating, text string) (string, error) {
	err := o.feedback.Append(models.Feedback{
		Timestamp:        time.Now(),
		UserMessage:      userMessage,
		BotResponse:      botResponse,
		Rating:           rating,
		FeedbackText:     text,
		TrackedInterests: profile.Interests(),
	})
	if err != nil {
		return "", err
	}
	o.logger.Info("feedback saved", zap.String("session", profile.ID), zap.String("rating", rating))
	return FeedbackSaved, nil
}

func appendExchange(history []models.Exchange, user, bot string) []models.Exchange {
	out := make([]models.Exchange, len(history), len(history)+1)
	copy(out, history)
	return append(out, models.Exchange{User: user, Bot: bot})
}

func generationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, llm.ErrMalformedResponse):
		return metrics.ResultMalformed
	default:
		return metrics.ResultTransport
	}
}
