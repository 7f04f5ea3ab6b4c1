// Package feedback appends user ratings of bot responses to a CSV file.
package feedback

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/egor/engadvisor/models"
)

// Ratings accepted by the sink.
const (
	RatingHelpful   = "👍 Helpful"
	RatingUnhelpful = "👎 Not Helpful"
	RatingPartial   = "🤔 Partially Helpful"
)

// ResponseExcerpt is the number of characters of the bot response that are kept.
const ResponseExcerpt = 200

// ErrInvalidRating is returned for a rating outside the accepted set.
var ErrInvalidRating = errors.New("invalid rating")

// Header is the first row of a newly created feedback file.
var Header = []string{"timestamp", "user_message", "bot_response", "rating", "feedback_text", "tracked_interests"}

// Ratings lists the accepted ratings in display order.
func Ratings() []string {
	return []string{RatingHelpful, RatingUnhelpful, RatingPartial}
}

// ValidRating reports whether r is an accepted rating.
func ValidRating(r string) bool {
	switch r {
	case RatingHelpful, RatingUnhelpful, RatingPartial:
		return true
	}
	return false
}

// Sink is an append-only CSV file. Appends are serialized.
type Sink struct {
	path string
	mu   sync.Mutex
}

// NewSink returns a sink writing to path. The file is created on first append.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string {
	return s.path
}

// Append writes fb as one row, preceded by the header if the file is new.
func (s *Sink) Append(fb models.Feedback) error {
	if !ValidRating(fb.Rating) {
		return fmt.Errorf("%w: %q", ErrInvalidRating, fb.Rating)
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	isNew := errors.Is(err, os.ErrNotExist)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(record(fb)); err != nil {
		return fmt.Errorf("write feedback row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush feedback file: %w", err)
	}
	return nil
}

func record(fb models.Feedback) []string {
	return []string{
		fb.Timestamp.Format("2006-01-02T15:04:05.000000"),
		fb.UserMessage,
		Excerpt(fb.BotResponse),
		fb.Rating,
		fb.FeedbackText,
		strings.Join(fb.TrackedInterests, ", "),
	}
}

// Excerpt shortens a response longer than ResponseExcerpt characters.
func Excerpt(s string) string {
	r := []rune(s)
	if len(r) <= ResponseExcerpt {
		return s
	}
	return string(r[:ResponseExcerpt]) + "..."
}
