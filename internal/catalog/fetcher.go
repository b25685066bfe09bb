package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/rebook/internal/client"
	"github.com/xiebiao/rebook/pkg/logger"
	"github.com/xiebiao/rebook/pkg/metrics"
)

// DefaultInterval 默认轮询间隔
const DefaultInterval = time.Second

// Source 目录数据源，*client.Client实现了该接口
type Source interface {
	Books(ctx context.Context, sess client.Session, sort client.Sort) ([]client.Book, error)
	Categories(ctx context.Context, sess client.Session) ([]client.Category, error)
}

// FetcherConfig 轮询配置
type FetcherConfig struct {
	Interval time.Duration // <=0时使用DefaultInterval
	Sort     client.Sort
}

// State 拉取状态
type State struct {
	Snapshot  *Snapshot // 最近一次成功的快照，还没成功过为nil
	Loading   bool      // 第一次轮询（无论成败）完成前为true
	Err       error     // 最近一次生效的轮询失败原因，成功后清空
	Attempt   uint64    // 最近一次生效的轮询序号
	CheckedAt time.Time // 最近一次生效的轮询完成时间
}

// Stale 最近一次轮询失败但仍有旧快照可用
func (s State) Stale() bool {
	return s.Err != nil && s.Snapshot != nil
}

// Fetcher 目录轮询器
//
// 1. 每次轮询并发拉取图书和分类，两者都成功才替换快照
// 2. 失败时记录错误，保留上一份快照
// 3. 上一次轮询还没结束时跳过本次tick
// 4. 每次轮询分配递增序号，比已生效序号旧的结果直接丢弃
type Fetcher struct {
	src  Source
	sess client.Session
	cfg  FetcherConfig
	now  func() time.Time

	seq     atomic.Uint64
	polling atomic.Bool
	wg      sync.WaitGroup

	mu      sync.Mutex
	state   State
	subs    map[int]chan State
	nextSub int
}

// NewFetcher 创建轮询器
// sess可以为空，此时每次轮询都以认证错误失败
func NewFetcher(src Source, sess client.Session, cfg FetcherConfig) *Fetcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Fetcher{
		src:   src,
		sess:  sess,
		cfg:   cfg,
		now:   time.Now,
		state: State{Loading: true},
		subs:  make(map[int]chan State),
	}
}

// State 当前状态
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe 订阅状态变化
// 通道缓冲1，只保留最新状态；订阅时立即推送当前状态。调用cancel后通道关闭
func (f *Fetcher) Subscribe() (<-chan State, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSub
	f.nextSub++
	ch := make(chan State, 1)
	ch <- f.state
	f.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Run 立即轮询一次，之后按间隔轮询，直到ctx取消
// 返回前等待进行中的轮询结束
func (f *Fetcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()
	defer f.wg.Wait()

	f.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

// tick 上一次轮询未结束时跳过
func (f *Fetcher) tick(ctx context.Context) bool {
	if !f.polling.CompareAndSwap(false, true) {
		metrics.ObservePoll(metrics.PollSkipped, 0)
		return false
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer f.polling.Store(false)
		_ = f.Poll(ctx)
	}()
	return true
}

// Poll 执行一次轮询并返回本次结果
// ctx被取消时结果不生效（消费者已经退出）
func (f *Fetcher) Poll(ctx context.Context) error {
	seq := f.seq.Add(1)
	start := time.Now()

	books, categories, err := f.fetch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var snap *Snapshot
	if err == nil {
		snap = NewSnapshot(BooksFromWire(books), CategoriesFromWire(categories), f.now())
		snap.seq = seq
	}

	elapsed := time.Since(start).Seconds()
	if !f.apply(seq, snap, err) {
		metrics.ObservePoll(metrics.PollStale, elapsed)
		return err
	}

	if err != nil {
		metrics.ObservePoll(metrics.PollFailure, elapsed)
		logger.Get().Debug().Err(err).Uint64("seq", seq).Msg("catalog poll failed, keeping previous snapshot")
		return err
	}
	metrics.ObservePoll(metrics.PollSuccess, elapsed)
	metrics.SetSnapshotBooks(snap.Len())
	return nil
}

// fetch 并发拉取图书和分类，任一失败取消另一个
func (f *Fetcher) fetch(ctx context.Context) ([]client.Book, []client.Category, error) {
	var (
		books      []client.Book
		categories []client.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = f.src.Books(gctx, f.sess, f.cfg.Sort)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = f.src.Categories(gctx, f.sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return books, categories, nil
}

// apply 应用轮询结果，seq不比已生效的新时丢弃并返回false
func (f *Fetcher) apply(seq uint64, snap *Snapshot, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq <= f.state.Attempt {
		return false
	}

	f.state.Attempt = seq
	f.state.Loading = false
	f.state.CheckedAt = f.now()
	if err != nil {
		f.state.Err = err
	} else {
		f.state.Snapshot = snap
		f.state.Err = nil
	}

	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- f.state
	}
	return true
}
