// Package slogan generates short marketing mottos through an external
// text-generation provider and tracks the transient slogan shown on the
// front of a card.
package slogan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("slogan: generator not configured")

// Generator produces one slogan for a company and a job title.
type Generator interface {
	Generate(ctx context.Context, company, title string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, company, title string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, company, title string) (string, error) {
	return f(ctx, company, title)
}

type disabled struct{}

func (disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// Disabled is the Generator used when the feature is switched off.
var Disabled Generator = disabled{}

const promptTemplate = `Vygeneruj krátke a úderné profesionálne motto (max 5 slov) pre firmu s názvom "%s" a osobu s pozíciou "%s". Odpovedaj len textom motta v slovenčine.`

// Prompt builds the provider prompt for company and title.
func Prompt(company, title string) string {
	return fmt.Sprintf(promptTemplate, company, title)
}

// Policy decides which completed request owns the displayed slogan when
// requests overlap.
type Policy int

const (
	// LastResolved keeps whichever response arrives last, even if it
	// belongs to an older request.
	LastResolved Policy = iota
	// LatestIssued ignores responses from any request that is not the most
	// recently issued one.
	LatestIssued
)

func (p Policy) String() string {
	switch p {
	case LastResolved:
		return "last-resolved"
	case LatestIssued:
		return "latest-issued"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps "last-resolved" or "latest-issued" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "last-resolved":
		return LastResolved, nil
	case "latest-issued":
		return LatestIssued, nil
	}
	return LastResolved, fmt.Errorf("unknown slogan policy %q", s)
}

// State is the transient slogan of one session and whether a request is
// still outstanding. It is never merged into the card data.
type State struct {
	mu       sync.Mutex
	policy   Policy
	text     string
	inflight int
	issued   uint64
}

// NewState returns an empty State using policy p.
func NewState(p Policy) *State {
	return &State{policy: p}
}

// Snapshot returns the current slogan and whether any request is pending.
func (s *State) Snapshot() (text string, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.inflight > 0
}

// Text returns the current slogan.
func (s *State) Text() string {
	t, _ := s.Snapshot()
	return t
}

// Pending reports whether a request is outstanding.
func (s *State) Pending() bool {
	_, p := s.Snapshot()
	return p
}

// begin marks a request as issued and returns its sequence number.
func (s *State) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.issued++
	return s.issued
}

// finish records the outcome of request seq. It reports whether the text
// became the displayed slogan.
func (s *State) finish(seq uint64, text string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil {
		return false
	}
	if s.policy == LatestIssued && seq != s.issued {
		return false
	}
	s.text = strings.TrimSpace(text)
	return true
}

// Generate asks gen for a slogan and stores the trimmed result. On error
// the previous slogan stays in place. The pending flag is set for the
// duration of the call.
func (s *State) Generate(ctx context.Context, gen Generator, company, title string) (applied bool, err error) {
	seq := s.begin()
	text, err := gen.Generate(ctx, company, title)
	return s.finish(seq, text, err), err
}
