package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/rebook/internal/client"
)

func TestBoard_RecomputesOnBothInputs(t *testing.T) {
	b := NewBoard(Predicate{Search: "dune"})
	v := b.View()
	assert.True(t, v.Loading)
	assert.Empty(t, v.Rows)

	snap := NewSnapshot([]Book{blink, dune, emma}, []Category{{ID: 1, Name: "Psychology"}}, time.Now())
	v = b.Update(State{Snapshot: snap})
	assert.False(t, v.Loading)
	assert.Equal(t, []Book{dune}, v.Rows)
	assert.Equal(t, 3, v.Total)

	v = b.SetPredicate(Predicate{Status: StatusFilter(StatusAvailable)})
	assert.Equal(t, []Book{dune, emma}, v.Rows)
	assert.Equal(t, Filter(snap, b.Predicate()), b.View().Rows)

	next := NewSnapshot([]Book{emma}, nil, time.Now())
	v = b.Update(State{Snapshot: next})
	assert.Equal(t, []Book{emma}, v.Rows)
}

func TestBoard_StaleSnapshotStaysVisible(t *testing.T) {
	b := NewBoard(Predicate{})
	snap := NewSnapshot([]Book{blink, dune}, nil, time.Now())
	b.Update(State{Snapshot: snap})

	v := b.Update(State{Snapshot: snap, Err: errors.New("timeout")})
	assert.Len(t, v.Rows, 2)
	assert.True(t, v.Stale())
	assert.Error(t, v.Err)
}

func TestBoard_ViewIsCopy(t *testing.T) {
	b := NewBoard(Predicate{})
	b.Update(State{Snapshot: NewSnapshot([]Book{blink}, nil, time.Now())})

	v := b.View()
	v.Rows[0].Title = "changed"
	assert.Equal(t, "Blink", b.View().Rows[0].Title)
}

func TestBoard_Follow(t *testing.T) {
	src := &fakeSource{books: []client.Book{wireBook(1, "Dune", 1), wireBook(2, "Blink", 0)}}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})
	b := NewBoard(Predicate{Status: StatusFilter(StatusAvailable)})

	ctx, cancel := context.WithCancel(context.Background())
	views := make(chan View, 16)
	done := make(chan error, 1)
	go func() { done <- b.Follow(ctx, f, func(v View) { views <- v }) }()

	first := <-views
	assert.True(t, first.Loading)

	require.NoError(t, f.Poll(context.Background()))
	var v View
	require.Eventually(t, func() bool {
		select {
		case v = <-views:
			return !v.Loading
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Dune", v.Rows[0].Title)

	cancel()
	assert.NoError(t, <-done)
}
