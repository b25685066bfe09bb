package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/rebook/internal/client"
)

// fakeSource 可控的数据源
// booksFn为nil时返回books/booksErr；n为第几次调用（从1开始）
type fakeSource struct {
	mu            sync.Mutex
	books         []client.Book
	categories    []client.Category
	booksErr      error
	categoriesErr error
	booksFn       func(ctx context.Context, n int32) ([]client.Book, error)
	booksCalls    atomic.Int32
	sessions      []client.Session
}

func (s *fakeSource) Books(ctx context.Context, sess client.Session, _ client.Sort) ([]client.Book, error) {
	n := s.booksCalls.Add(1)
	s.mu.Lock()
	s.sessions = append(s.sessions, sess)
	fn, books, err := s.booksFn, s.books, s.booksErr
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, n)
	}
	return books, err
}

func (s *fakeSource) Categories(_ context.Context, _ client.Session) ([]client.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories, s.categoriesErr
}

func (s *fakeSource) set(books []client.Book, booksErr, categoriesErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books, s.booksErr, s.categoriesErr = books, booksErr, categoriesErr
}

func wireBook(id uint, title string, available int) client.Book {
	cat := uint(1)
	return client.Book{
		ID:         id,
		Title:      title,
		Author:     client.Author{ID: 1, Name: "Someone"},
		CategoryID: &cat,
		Category:   &client.Category{ID: 1, Name: "Fiction"},
		Available:  available,
		Total:      available,
	}
}

func titles(s *Snapshot) []string {
	var out []string
	for _, b := range s.Books() {
		out = append(out, b.Title)
	}
	return out
}

func TestFetcher_InitialState(t *testing.T) {
	f := NewFetcher(&fakeSource{}, client.Session{}, FetcherConfig{})
	st := f.State()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Snapshot)
	assert.NoError(t, st.Err)
}

func TestFetcher_PollSuccess(t *testing.T) {
	src := &fakeSource{
		books:      []client.Book{wireBook(1, "Dune", 2), wireBook(2, "Blink", 0)},
		categories: []client.Category{{ID: 1, Name: "Fiction"}},
	}
	sess := client.Session{Token: "tok"}
	f := NewFetcher(src, sess, FetcherConfig{})

	require.NoError(t, f.Poll(context.Background()))
	st := f.State()
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, []string{"Dune", "Blink"}, titles(st.Snapshot))
	assert.Equal(t, []Category{{ID: 1, Name: "Fiction"}}, st.Snapshot.Categories())

	books := st.Snapshot.Books()
	assert.Equal(t, StatusAvailable, books[0].Status, "缺少status时按可借数量推导")
	assert.Equal(t, StatusUnavailable, books[1].Status)
	assert.Equal(t, uint(1), books[0].CategoryID)
	assert.Equal(t, []client.Session{sess}, src.sessions)
}

func TestFetcher_FirstFailure(t *testing.T) {
	src := &fakeSource{booksErr: &client.Error{Kind: client.KindAuthentication, Message: "请先登录"}}
	f := NewFetcher(src, client.Session{}, FetcherConfig{})

	err := f.Poll(context.Background())
	assert.True(t, client.IsKind(err, client.KindAuthentication))

	st := f.State()
	assert.False(t, st.Loading, "失败也结束加载状态")
	assert.Nil(t, st.Snapshot)
	assert.Error(t, st.Err)
	assert.False(t, st.Stale())
}

func TestFetcher_StaleButAvailable(t *testing.T) {
	src := &fakeSource{books: []client.Book{wireBook(1, "Dune", 1)}}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})
	require.NoError(t, f.Poll(context.Background()))
	good := f.State().Snapshot

	// 任一请求失败都不替换快照
	src.set([]client.Book{wireBook(2, "Emma", 1)}, nil, errors.New("categories down"))
	assert.Error(t, f.Poll(context.Background()))
	st := f.State()
	assert.Same(t, good, st.Snapshot)
	assert.True(t, st.Stale())

	src.set(nil, errors.New("books down"), nil)
	assert.Error(t, f.Poll(context.Background()))
	assert.Same(t, good, f.State().Snapshot)

	// 恢复后清除错误
	src.set([]client.Book{wireBook(2, "Emma", 1)}, nil, nil)
	require.NoError(t, f.Poll(context.Background()))
	st = f.State()
	assert.NoError(t, st.Err)
	assert.Equal(t, []string{"Emma"}, titles(st.Snapshot))
}

func TestFetcher_DiscardsOlderResults(t *testing.T) {
	firstCalled := make(chan struct{})
	releaseFirst := make(chan struct{})
	src := &fakeSource{}
	src.booksFn = func(ctx context.Context, n int32) ([]client.Book, error) {
		if n == 1 {
			close(firstCalled)
			<-releaseFirst
			return []client.Book{wireBook(1, "old", 1)}, nil
		}
		return []client.Book{wireBook(2, "new", 1)}, nil
	}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})

	done := make(chan error, 1)
	go func() { done <- f.Poll(context.Background()) }()
	<-firstCalled

	require.NoError(t, f.Poll(context.Background()))
	assert.Equal(t, []string{"new"}, titles(f.State().Snapshot))

	close(releaseFirst)
	require.NoError(t, <-done)

	st := f.State()
	assert.Equal(t, []string{"new"}, titles(st.Snapshot), "先发出后返回的结果被丢弃")
	assert.Equal(t, uint64(2), st.Attempt)
	assert.Equal(t, uint64(2), st.Snapshot.Seq())
}

func TestFetcher_RunSkipsOverlappingPolls(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{}
	src.booksFn = func(ctx context.Context, n int32) ([]client.Book, error) {
		select {
		case <-release:
			return []client.Book{wireBook(1, "Dune", 1)}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- f.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), src.booksCalls.Load(), "进行中的轮询未结束时跳过tick")

	close(release)
	assert.Eventually(t, func() bool { return f.State().Snapshot != nil }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return src.booksCalls.Load() > 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFetcher_CancelledPollDoesNotApply(t *testing.T) {
	src := &fakeSource{}
	src.booksFn = func(ctx context.Context, _ int32) ([]client.Book, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Poll(ctx), context.Canceled)
	assert.True(t, f.State().Loading)
}

func TestFetcher_Subscribe(t *testing.T) {
	src := &fakeSource{books: []client.Book{wireBook(1, "Dune", 1)}}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})

	ch, cancel := f.Subscribe()
	initial := <-ch
	assert.True(t, initial.Loading)

	require.NoError(t, f.Poll(context.Background()))
	require.NoError(t, f.Poll(context.Background()))
	latest := <-ch
	assert.Equal(t, uint64(2), latest.Attempt, "只保留最新状态")

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	cancel()
}
