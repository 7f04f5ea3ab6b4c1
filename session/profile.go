package session

import (
	"strings"
	"sync"
)

// NoInterests is rendered while a profile has not picked up any interest.
const NoInterests = "None yet"

// Vocabulary is the closed set of interest tags a profile may hold.
type Vocabulary struct {
	tags []string
	set  map[string]struct{}
}

// DefaultTags is the interest vocabulary used when none is configured.
var DefaultTags = []string{"robotics", "ai", "materials", "space", "bioengineering", "energy", "programming"}

// NewVocabulary builds a vocabulary from tags. Tags are lowercased, blanks
// and duplicates are dropped.
func NewVocabulary(tags ...string) *Vocabulary {
	v := &Vocabulary{set: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := v.set[t]; ok {
			continue
		}
		v.set[t] = struct{}{}
		v.tags = append(v.tags, t)
	}
	return v
}

// DefaultVocabulary returns a vocabulary over DefaultTags.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultTags...)
}

// Contains reports whether tag is part of the vocabulary.
func (v *Vocabulary) Contains(tag string) bool {
	_, ok := v.set[tag]
	return ok
}

// Tags returns the vocabulary in configured order.
func (v *Vocabulary) Tags() []string {
	return append([]string(nil), v.tags...)
}

// Profile accumulates what is known about one user during a session.
// Interests only ever grow.
type Profile struct {
	ID string

	mu        sync.RWMutex
	vocab     *Vocabulary
	interests []string
	seen      map[string]struct{}
	goals     []string // reserved, never written
}

// NewProfile creates an empty profile bound to vocab.
func NewProfile(id string, vocab *Vocabulary) *Profile {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Profile{
		ID:    id,
		vocab: vocab,
		seen:  make(map[string]struct{}),
	}
}

// UpdateInterests adds every whitespace separated token of message that is
// exactly a vocabulary tag. It returns the tags that were newly added.
func (p *Profile) UpdateInterests(message string) []string {
	tokens := strings.Fields(strings.ToLower(message))

	p.mu.Lock()
	defer p.mu.Unlock()

	var added []string
	for _, tok := range tokens {
		if !p.vocab.Contains(tok) {
			continue
		}
		if _, ok := p.seen[tok]; ok {
			continue
		}
		p.seen[tok] = struct{}{}
		p.interests = append(p.interests, tok)
		added = append(added, tok)
	}
	return added
}

// Interests returns a copy of the interests in first-seen order.
func (p *Profile) Interests() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.interests...)
}

// Render formats the interests for display.
func (p *Profile) Render() string {
	interests := p.Interests()
	if len(interests) == 0 {
		return NoInterests
	}
	return strings.Join(interests, ", ")
}

// Goals is reserved for goal tracking and is always empty for now.
func (p *Profile) Goals() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.goals...)
}
