package slogan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptContainsCompanyAndTitle(t *testing.T) {
	p := Prompt("Acme", "Director")
	assert.Contains(t, p, `"Acme"`)
	assert.Contains(t, p, `"Director"`)
	assert.Contains(t, p, "max 5 slov")
}

func TestGenerateStoresTrimmedText(t *testing.T) {
	var gotCompany, gotTitle string
	gen := GeneratorFunc(func(_ context.Context, company, title string) (string, error) {
		gotCompany, gotTitle = company, title
		return "  Rastieme spolu.  ", nil
	})

	s := NewState(LastResolved)
	applied, err := s.Generate(context.Background(), gen, "Acme", "Director")
	require.NoError(t, err)
	assert.True(t, applied)

	text, pending := s.Snapshot()
	assert.Equal(t, "Rastieme spolu.", text)
	assert.False(t, pending)
	assert.Equal(t, "Acme", gotCompany)
	assert.Equal(t, "Director", gotTitle)
}

func TestGenerateFailureKeepsPreviousSlogan(t *testing.T) {
	s := NewState(LastResolved)
	ok := GeneratorFunc(func(context.Context, string, string) (string, error) { return "Prvé motto", nil })
	_, err := s.Generate(context.Background(), ok, "Acme", "Director")
	require.NoError(t, err)

	boom := errors.New("provider down")
	fail := GeneratorFunc(func(context.Context, string, string) (string, error) { return "", boom })
	applied, err := s.Generate(context.Background(), fail, "Acme", "Director")
	require.ErrorIs(t, err, boom)
	assert.False(t, applied)

	text, pending := s.Snapshot()
	assert.Equal(t, "Prvé motto", text)
	assert.False(t, pending)
}

func TestDisabledGenerator(t *testing.T) {
	s := NewState(LastResolved)
	_, err := s.Generate(context.Background(), Disabled, "Acme", "Director")
	require.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, s.Text())
	assert.False(t, s.Pending())
}

// gatedGenerator blocks each call until its release channel is closed.
type gatedGenerator struct {
	started chan string
	release map[string]chan struct{}
}

func (g *gatedGenerator) Generate(_ context.Context, company, _ string) (string, error) {
	g.started <- company
	<-g.release[company]
	return "motto " + company, nil
}

func runOverlapping(t *testing.T, p Policy) *State {
	t.Helper()
	gen := &gatedGenerator{
		started: make(chan string),
		release: map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})},
	}
	s := NewState(p)

	var wg sync.WaitGroup
	doneB := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.Generate(context.Background(), gen, "A", "t")
	}()
	require.Equal(t, "A", <-gen.started)
	go func() {
		defer wg.Done()
		defer close(doneB)
		_, _ = s.Generate(context.Background(), gen, "B", "t")
	}()
	require.Equal(t, "B", <-gen.started)
	assert.True(t, s.Pending())

	close(gen.release["B"])
	<-doneB
	assert.True(t, s.Pending(), "A is still outstanding")

	close(gen.release["A"])
	wg.Wait()
	assert.False(t, s.Pending())
	return s
}

func TestOverlappingRequestsLastResolvedWins(t *testing.T) {
	// A is issued first and resolves last, so its text is what remains.
	s := runOverlapping(t, LastResolved)
	assert.Equal(t, "motto A", s.Text())
}

func TestOverlappingRequestsLatestIssuedWins(t *testing.T) {
	s := runOverlapping(t, LatestIssued)
	assert.Equal(t, "motto B", s.Text())
}

func TestNewGenAIRequiresKey(t *testing.T) {
	_, err := NewGenAI(context.Background(), "", "")
	require.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{LastResolved, LatestIssued} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePolicy(" Latest-Issued ")
	require.NoError(t, err)
	assert.Equal(t, LatestIssued, got)

	_, err = ParsePolicy("first-wins")
	assert.Error(t, err)
}
