// Package event 图书管理员操作事件
//
// 删除、入库图书后发布事件到RabbitMQ（topic exchange），供通知、审计等下游订阅。
// mq.enabled=false时使用NopPublisher，事件只记日志。
package event

import (
	"context"
	"time"

	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/pkg/logger"
	"github.com/xiebiao/rebook/pkg/mq"
)

// Routing key
const (
	BookDeletedKey   = "book.deleted"
	BookPublishedKey = "book.published"
)

// BookDeleted 图书被删除
type BookDeleted struct {
	BookID    uint      `json:"book_id"`
	Title     string    `json:"title"`
	DeletedBy uint      `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}

// BookPublished 图书入库
type BookPublished struct {
	BookID      uint      `json:"book_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Total       int       `json:"total"`
	PublishedBy uint      `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher 事件发布者
type Publisher interface {
	BookDeleted(ctx context.Context, e BookDeleted) error
	BookPublished(ctx context.Context, e BookPublished) error
	Close() error
}

// NewPublisher 按配置创建发布者
func NewPublisher(cfg config.MQConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	p, err := mq.NewPublisher(mq.Config{
		URL:          cfg.URL,
		Exchange:     cfg.Exchange,
		ExchangeType: cfg.ExchangeType,
		AppID:        "rebook-api",
	})
	if err != nil {
		return nil, err
	}
	return &mqPublisher{p: p}, nil
}

type mqPublisher struct {
	p *mq.Publisher
}

func (m *mqPublisher) BookDeleted(ctx context.Context, e BookDeleted) error {
	_, err := m.p.Publish(ctx, BookDeletedKey, e)
	return err
}

func (m *mqPublisher) BookPublished(ctx context.Context, e BookPublished) error {
	_, err := m.p.Publish(ctx, BookPublishedKey, e)
	return err
}

func (m *mqPublisher) Close() error {
	return m.p.Close()
}

// NopPublisher 不发布，只记debug日志
type NopPublisher struct{}

func (NopPublisher) BookDeleted(_ context.Context, e BookDeleted) error {
	logger.Get().Debug().Uint("book_id", e.BookID).Msg("event dropped: " + BookDeletedKey)
	return nil
}

func (NopPublisher) BookPublished(_ context.Context, e BookPublished) error {
	logger.Get().Debug().Uint("book_id", e.BookID).Msg("event dropped: " + BookPublishedKey)
	return nil
}

func (NopPublisher) Close() error { return nil }

// Recorder 记录发布的事件（测试使用）
type Recorder struct {
	Deleted   []BookDeleted
	Published []BookPublished
	Err       error
}

func (r *Recorder) BookDeleted(_ context.Context, e BookDeleted) error {
	if r.Err != nil {
		return r.Err
	}
	r.Deleted = append(r.Deleted, e)
	return nil
}

func (r *Recorder) BookPublished(_ context.Context, e BookPublished) error {
	if r.Err != nil {
		return r.Err
	}
	r.Published = append(r.Published, e)
	return nil
}

func (r *Recorder) Close() error { return nil }
