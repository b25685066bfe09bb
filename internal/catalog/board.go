package catalog

import (
	"context"
	"sync"
	"time"
)

// View 当前可见的目录
type View struct {
	Rows       []Book
	Categories []Category
	Predicate  Predicate
	Total      int // 快照中的图书总数（筛选前）
	Loading    bool
	Err        error
	UpdatedAt  time.Time // 快照拉取时间，没有快照时为零值
}

// Stale 显示的是旧快照（最近一次轮询失败）
func (v View) Stale() bool {
	return v.Err != nil && !v.UpdatedAt.IsZero()
}

// Board 目录看板
// 可见列表始终等于Filter(最新快照, 当前条件)，快照或条件变化时重新计算
type Board struct {
	mu    sync.Mutex
	state State
	pred  Predicate
	view  View
}

// NewBoard 创建看板
func NewBoard(p Predicate) *Board {
	b := &Board{pred: p, state: State{Loading: true}}
	b.recompute()
	return b
}

// Update 收到新的拉取状态
func (b *Board) Update(s State) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
	b.recompute()
	return b.snapshotView()
}

// SetPredicate 修改筛选条件
func (b *Board) SetPredicate(p Predicate) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pred = p
	b.recompute()
	return b.snapshotView()
}

// Predicate 当前筛选条件
func (b *Board) Predicate() Predicate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pred
}

// View 当前可见目录
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotView()
}

// Follow 跟随Fetcher的状态变化，每次变化后调用render，直到ctx取消
func (b *Board) Follow(ctx context.Context, f *Fetcher, render func(View)) error {
	ch, cancel := f.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-ch:
			if !ok {
				return nil
			}
			render(b.Update(s))
		}
	}
}

func (b *Board) recompute() {
	snap := b.state.Snapshot
	b.view = View{
		Rows:       Filter(snap, b.pred),
		Categories: snap.Categories(),
		Predicate:  b.pred,
		Total:      snap.Len(),
		Loading:    b.state.Loading,
		Err:        b.state.Err,
		UpdatedAt:  snap.FetchedAt(),
	}
}

// snapshotView 返回副本，调用方修改Rows不影响看板
func (b *Board) snapshotView() View {
	v := b.view
	v.Rows = append([]Book(nil), v.Rows...)
	v.Categories = append([]Category(nil), v.Categories...)
	return v
}
