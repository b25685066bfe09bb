package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/rebook/internal/client"
)

type fakeDeleter struct {
	calls []uint
	sess  client.Session
	err   error
}

func (d *fakeDeleter) DeleteBook(_ context.Context, sess client.Session, id uint) error {
	d.calls = append(d.calls, id)
	d.sess = sess
	return d.err
}

func answer(ok bool, err error) ConfirmFunc {
	return func(context.Context, string) (bool, error) { return ok, err }
}

func TestInventory_Declined(t *testing.T) {
	d := &fakeDeleter{}
	inv := NewInventory(d, client.Session{Token: "t"}, answer(false, nil))

	assert.ErrorIs(t, inv.DeleteBook(context.Background(), 7), ErrDeleteCancelled)
	assert.Empty(t, d.calls, "未确认不发请求")
}

func TestInventory_ConfirmError(t *testing.T) {
	d := &fakeDeleter{}
	boom := errors.New("stdin closed")
	inv := NewInventory(d, client.Session{Token: "t"}, answer(false, boom))

	assert.ErrorIs(t, inv.DeleteBook(context.Background(), 7), boom)
	assert.Empty(t, d.calls)
}

func TestInventory_PromptNamesBook(t *testing.T) {
	var prompt string
	inv := NewInventory(&fakeDeleter{}, client.Session{}, ConfirmFunc(func(_ context.Context, p string) (bool, error) {
		prompt = p
		return false, nil
	}))
	_ = inv.DeleteBook(context.Background(), 42)
	assert.Contains(t, prompt, "#42")
}

// 删除失败：报告原因，本地快照不变
func TestInventory_FailureLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{books: []client.Book{wireBook(1, "Dune", 1)}}
	f := NewFetcher(src, client.Session{Token: "t"}, FetcherConfig{})
	require.NoError(t, f.Poll(ctx))
	before := f.State()

	d := &fakeDeleter{err: &client.Error{Kind: client.KindForbidden, Status: 403, Message: "无权限访问"}}
	inv := NewInventory(d, client.Session{Token: "t"}, answer(true, nil))

	err := inv.DeleteBook(ctx, 1)
	assert.True(t, client.IsKind(err, client.KindForbidden))
	assert.Equal(t, before, f.State())
}

// 删除成功：本地列表不打补丁，下一次轮询后消失
func TestInventory_SuccessReflectedOnNextPoll(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{books: []client.Book{wireBook(1, "Dune", 1), wireBook(2, "Emma", 1)}}
	sess := client.Session{Token: "librarian"}
	f := NewFetcher(src, sess, FetcherConfig{})
	require.NoError(t, f.Poll(ctx))

	d := &fakeDeleter{}
	inv := NewInventory(d, sess, answer(true, nil))
	require.NoError(t, inv.DeleteBook(ctx, 1))
	assert.Equal(t, []uint{1}, d.calls)
	assert.Equal(t, sess, d.sess)

	_, stillThere := f.State().Snapshot.Book(1)
	assert.True(t, stillThere, "下一次轮询前仍然可见")

	src.set([]client.Book{wireBook(2, "Emma", 1)}, nil, nil)
	require.NoError(t, f.Poll(ctx))
	_, stillThere = f.State().Snapshot.Book(1)
	assert.False(t, stillThere)
}
