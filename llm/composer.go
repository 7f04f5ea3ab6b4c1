package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/egor/engadvisor/models"
)

const (
	// HistoryWindow is how many past exchanges are replayed to the model.
	HistoryWindow = 4
	// ContextPrograms is how many ranked programs go into the system prompt.
	ContextPrograms = 3
	// DetailPrograms is how many capsules are appended to the reply.
	DetailPrograms = 3

	contextExcerpt = 150
	detailExcerpt  = 200
)

const persona = "You are a helpful academic advisor for the University of Maryland A. James Clark School of Engineering. " +
	"Help students choose between engineering majors and minors based on their interests. " +
	"Be encouraging, informative, and personalized in your responses. "

const (
	transportApology = "Sorry, I'm having trouble connecting to my AI service. Please try again later. Error: "
	malformedApology = "Sorry, I received an unexpected response. Please try again. Error: "
)

// Reply is the composed response of one turn.
type Reply struct {
	Text     string        // always safe to show the user
	Err      error         // generation failure already folded into Text
	Duration time.Duration // time spent in the generation service
}

// Composer builds grounded prompts and merges the generated narrative with
// structured program capsules.
type Composer struct {
	gen Generator
}

// NewComposer creates a Composer delegating narrative generation to gen.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen}
}

// Compose generates the reply for message. It never fails: a generation
// error becomes an apology that carries the error detail.
func (c *Composer) Compose(ctx context.Context, message string, history []models.Exchange, matches []models.MatchResult) Reply {
	messages := BuildMessages(message, history, matches)

	start := time.Now()
	narrative, err := c.gen.Generate(ctx, messages)
	reply := Reply{Duration: time.Since(start), Err: err}
	if err != nil {
		narrative = Apology(err)
	}

	if len(matches) > 0 {
		narrative += "\n\n## 📚 Detailed Program Information:\n\n"
		for _, m := range head(matches, DetailPrograms) {
			narrative += ProgramSummary(m.Program)
		}
	}

	reply.Text = narrative
	return reply
}

// Apology renders the user-visible text for a generation failure.
func Apology(err error) string {
	if errors.Is(err, ErrMalformedResponse) {
		return malformedApology + err.Error()
	}
	return transportApology + err.Error()
}

// BuildMessages assembles the request: system instruction, up to
// HistoryWindow past exchanges, then the current message.
func BuildMessages(message string, history []models.Exchange, matches []models.MatchResult) []Message {
	messages := make([]Message, 0, 2+2*HistoryWindow)
	messages = append(messages, Message{Role: RoleSystem, Content: SystemPrompt(matches)})

	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	for _, ex := range history {
		messages = append(messages,
			Message{Role: RoleUser, Content: ex.User},
			Message{Role: RoleAssistant, Content: ex.Bot},
		)
	}

	return append(messages, Message{Role: RoleUser, Content: message})
}

// SystemPrompt describes the advisor persona and, when there are matches,
// the top ranked programs.
func SystemPrompt(matches []models.MatchResult) string {
	var b strings.Builder
	b.WriteString(persona)

	if len(matches) == 0 {
		return b.String()
	}

	b.WriteString("Here are the most relevant UMD engineering programs based on the student's interests:\n\n")
	for i, m := range head(matches, ContextPrograms) {
		p := m.Program
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, p.Name, p.Type)
		fmt.Fprintf(&b, "   - Description: %s...\n", truncate(p.Content, contextExcerpt))
		fmt.Fprintf(&b, "   - Career paths: %s\n", strings.Join(p.CareerFocus, ", "))
		fmt.Fprintf(&b, "   - Industries: %s\n\n", strings.Join(p.IndustryApplications, ", "))
	}
	return b.String()
}

// ProgramSummary formats the capsule appended to a reply for one program.
func ProgramSummary(p *models.Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s (%s)**\n\n", p.Name, p.Type)
	fmt.Fprintf(&b, "📋 **Overview:** %s...\n\n", truncate(p.Content, detailExcerpt))

	if len(p.CareerFocus) > 0 {
		fmt.Fprintf(&b, "💼 **Career Opportunities:** %s\n\n", strings.Join(p.CareerFocus, ", "))
	}
	if len(p.IndustryApplications) > 0 {
		fmt.Fprintf(&b, "🏭 **Industries:** %s\n\n", strings.Join(p.IndustryApplications, ", "))
	}
	if len(p.Specializations) > 0 {
		fmt.Fprintf(&b, "🎯 **Specializations:** %s\n\n", p.Specializations.String())
	}

	fmt.Fprintf(&b, "🔗 **More Info:** %s\n", p.URL)
	b.WriteString("---\n")
	return b.String()
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func head(matches []models.MatchResult, n int) []models.MatchResult {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
