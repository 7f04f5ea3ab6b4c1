package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor/engadvisor/models"
)

type fakeGenerator struct {
	reply string
	err   error
	got   []Message
}

func (f *fakeGenerator) Generate(_ context.Context, messages []Message) (string, error) {
	f.got = messages
	return f.reply, f.err
}

func testProgram(name string) *models.Program {
	return &models.Program{
		URL:                  "https://eng.umd.edu/" + strings.ToLower(name),
		Name:                 name,
		Type:                 models.ProgramTypeMajor,
		CareerFocus:          []string{name + " engineer"},
		IndustryApplications: []string{"aerospace", "defense"},
		Content:              strings.Repeat("x", 300),
	}
}

func matchesFor(names ...string) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(names))
	for i, n := range names {
		out = append(out, models.MatchResult{Program: testProgram(n), Score: 10 - i})
	}
	return out
}

func TestBuildMessagesOrder(t *testing.T) {
	history := make([]models.Exchange, 6)
	for i := range history {
		history[i] = models.Exchange{User: fmt.Sprintf("u%d", i), Bot: fmt.Sprintf("b%d", i)}
	}

	msgs := BuildMessages("now", history, nil)
	require.Len(t, msgs, 1+2*HistoryWindow+1)

	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, Message{Role: RoleUser, Content: "u2"}, msgs[1])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "b2"}, msgs[2])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "b5"}, msgs[8])
	assert.Equal(t, Message{Role: RoleUser, Content: "now"}, msgs[9])
}

func TestBuildMessagesShortHistory(t *testing.T) {
	msgs := BuildMessages("hello", nil, nil)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestSystemPrompt(t *testing.T) {
	bare := SystemPrompt(nil)
	assert.NotContains(t, bare, "most relevant")

	prompt := SystemPrompt(matchesFor("Alpha", "Beta", "Gamma", "Delta"))
	assert.Contains(t, prompt, "1. Alpha (Major)")
	assert.Contains(t, prompt, "3. Gamma (Major)")
	assert.NotContains(t, prompt, "Delta")
	assert.Contains(t, prompt, "   - Description: "+strings.Repeat("x", 150)+"...\n")
	assert.Contains(t, prompt, "   - Career paths: Alpha engineer\n")
	assert.Contains(t, prompt, "   - Industries: aerospace, defense\n")
}

func TestComposeAppendsDetails(t *testing.T) {
	gen := &fakeGenerator{reply: "Narrative."}
	c := NewComposer(gen)

	reply := c.Compose(context.Background(), "robots", nil, matchesFor("Alpha", "Beta", "Gamma", "Delta"))
	require.NoError(t, reply.Err)

	assert.True(t, strings.HasPrefix(reply.Text, "Narrative.\n\n## 📚 Detailed Program Information:\n\n"))
	assert.Equal(t, 3, strings.Count(reply.Text, "🔗 **More Info:**"))
	assert.NotContains(t, reply.Text, "Delta")
	assert.Contains(t, reply.Text, "📋 **Overview:** "+strings.Repeat("x", 200)+"...\n\n")
	assert.Len(t, gen.got, 2)
}

func TestComposeNoMatches(t *testing.T) {
	c := NewComposer(&fakeGenerator{reply: "Tell me more."})

	reply := c.Compose(context.Background(), "hi", nil, nil)
	assert.Equal(t, "Tell me more.", reply.Text)
}

func TestComposeFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{
			name:   "transport",
			err:    errors.New("dial tcp: connection refused"),
			prefix: "Sorry, I'm having trouble connecting to my AI service. Please try again later. Error: dial tcp",
		},
		{
			name:   "upstream status",
			err:    fmt.Errorf("%w: status 500", ErrUpstreamStatus),
			prefix: "Sorry, I'm having trouble connecting to my AI service.",
		},
		{
			name:   "malformed",
			err:    fmt.Errorf("%w: no choices", ErrMalformedResponse),
			prefix: "Sorry, I received an unexpected response. Please try again. Error: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(&fakeGenerator{err: tt.err})
			reply := c.Compose(context.Background(), "robots", nil, matchesFor("Alpha"))

			assert.ErrorIs(t, reply.Err, tt.err)
			assert.True(t, strings.HasPrefix(reply.Text, tt.prefix), reply.Text)
			assert.Contains(t, reply.Text, "**Alpha (Major)**")
		})
	}
}

func TestProgramSummary(t *testing.T) {
	p := testProgram("Alpha")
	p.Content = "Short."
	p.Specializations = models.Specializations{"Controls", "Vision"}

	got := ProgramSummary(p)
	want := "**Alpha (Major)**\n\n" +
		"📋 **Overview:** Short....\n\n" +
		"💼 **Career Opportunities:** Alpha engineer\n\n" +
		"🏭 **Industries:** aerospace, defense\n\n" +
		"🎯 **Specializations:** Controls, Vision\n\n" +
		"🔗 **More Info:** https://eng.umd.edu/alpha\n" +
		"---\n"
	assert.Equal(t, want, got)

	p.Specializations = nil
	assert.NotContains(t, ProgramSummary(p), "Specializations")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héé", truncate("hééllo", 3))
	assert.Equal(t, "ab", truncate("ab", 5))
}
