package card

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReplace(t *testing.T) {
	s := NewStore(Default())
	assert.Equal(t, Default(), s.Current())
	assert.Zero(t, s.Version())

	next, err := Edit(s.Current(), FieldCompany, "Acme")
	require.NoError(t, err)
	s.Replace(next)

	assert.Equal(t, "Acme", s.Current().Company)
	assert.Equal(t, uint64(1), s.Version())
}

func TestStoreUpdateErrorKeepsCurrent(t *testing.T) {
	s := NewStore(Default())
	boom := errors.New("boom")

	got, err := s.Update(func(d Data) (Data, error) {
		d.Name = "changed"
		return d, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Default(), got)
	assert.Equal(t, Default(), s.Current())
	assert.Zero(t, s.Version())
}

func TestStoreUpdateDoesNotLoseConcurrentEdits(t *testing.T) {
	s := NewStore(Default())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = s.Update(func(d Data) (Data, error) { return Edit(d, FieldName, "Name") })
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = s.Update(func(d Data) (Data, error) { return WithLogo(d, "data:image/png;base64,AA"), nil })
		}
	}()
	wg.Wait()

	cur := s.Current()
	assert.Equal(t, "Name", cur.Name)
	assert.Equal(t, "data:image/png;base64,AA", cur.LogoURL)
	assert.Equal(t, uint64(200), s.Version())
}
