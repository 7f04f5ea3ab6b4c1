package pii

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAndRedact(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category Category
		secret   string
		want     string
	}{
		{
			name:     "national id",
			input:    "My SSN is 123-45-6789, can you help?",
			category: CategorySSN,
			secret:   "123-45-6789",
			want:     "My SSN is [REDACTED], can you help?",
		},
		{
			name:     "phone",
			input:    "call 301-405-1000 today",
			category: CategoryPhone,
			secret:   "301-405-1000",
			want:     "call [REDACTED] today",
		},
		{
			name:     "email with upper case domain",
			input:    "Email Jane.Doe@UMD.EDU please",
			category: CategoryEmail,
			secret:   "Jane.Doe@UMD.EDU",
			want:     "Email [REDACTED] please",
		},
		{
			name:     "payment card",
			input:    "card number 4111111111111111",
			category: CategoryCreditCard,
			secret:   "4111111111111111",
			want:     "card number [REDACTED]",
		},
		{
			name:     "postal code",
			input:    "College Park 20742",
			category: CategoryZip,
			secret:   "20742",
			want:     "College Park [REDACTED]",
		},
	}

	s := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, s.Detect(tt.input), tt.category)

			got := s.Redact(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, tt.secret)
		})
	}
}

func TestNoMatches(t *testing.T) {
	s := Default()
	input := "I love robotics and AI"

	assert.Empty(t, s.Detect(input))
	assert.Empty(t, s.Scan(input))
	assert.Equal(t, input, s.Redact(input))
}

func TestRedactIsIdempotent(t *testing.T) {
	s := Default()
	once := s.Redact("reach me at jane@umd.edu or 301-405-1000, SSN 123-45-6789")
	require.Equal(t, "reach me at [REDACTED] or [REDACTED], SSN [REDACTED]", once)
	assert.Equal(t, once, s.Redact(once))
}

func TestOverlapFirstMatcherWins(t *testing.T) {
	s := Default()
	input := "4111-1111-1111-1111"

	// Both shapes are present, but the phone matcher runs first and claims
	// the middle groups, so the wider card match is dropped.
	assert.Equal(t, []Category{CategoryPhone, CategoryCreditCard}, s.Detect(input))

	spans := s.Scan(input)
	require.Len(t, spans, 1)
	assert.Equal(t, Span{Category: CategoryPhone, Start: 5, End: 14}, spans[0])
	assert.Equal(t, "4111-[REDACTED]-1111", s.Redact(input))
}

func TestScanOrdersSpansByPosition(t *testing.T) {
	s := Default()
	spans := s.Scan("20742 then jane@umd.edu")

	require.Len(t, spans, 2)
	assert.Equal(t, CategoryZip, spans[0].Category)
	assert.Equal(t, CategoryEmail, spans[1].Category)
}

func TestCustomMatcherOrder(t *testing.T) {
	s := New(Matcher{Category: "room", Pattern: regexp.MustCompile(`room \d+`)})

	assert.Equal(t, []Category{"room"}, s.Detect("meet in room 1110"))
	assert.Equal(t, "meet in [REDACTED]", s.Redact("meet in room 1110"))
	assert.True(t, strings.HasPrefix(New().Redact("room 1"), "room"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"email", "ssn"}, Labels([]Category{CategoryEmail, CategorySSN}))
}
