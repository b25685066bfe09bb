// Package mq RabbitMQ消息发布
//
// 只负责发布：声明一个持久化Exchange，把消息序列化为JSON后按routing key投递。
// 消费方（通知、审计）不在本仓库。
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/rebook/pkg/logger"
)

// ErrClosed 连接已经断开（Broker重启或调用过Close）
var ErrClosed = errors.New("mq: publisher closed")

// Config 发布者配置
type Config struct {
	URL          string
	Exchange     string
	ExchangeType string // topic | direct | fanout
	AppID        string // 写入消息属性，方便下游区分来源
}

// Publisher 消息发布者
// amqp.Channel不是并发安全的，Publish用互斥锁串行化
type Publisher struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel

	mu     sync.Mutex
	closed bool
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(cfg Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// durable, 不自动删除
	if err := channel.ExchangeDeclare(cfg.Exchange, cfg.ExchangeType, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	p := &Publisher{cfg: cfg, conn: conn, channel: channel}
	go p.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	logger.Get().Info().Str("exchange", cfg.Exchange).Str("type", cfg.ExchangeType).Msg("mq publisher ready")
	return p, nil
}

// watch 连接断开后标记为关闭，之后的Publish直接返回ErrClosed
func (p *Publisher) watch(ch <-chan *amqp.Error) {
	amqpErr, ok := <-ch
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	if ok && amqpErr != nil {
		logger.Get().Error().Str("reason", amqpErr.Reason).Int("code", amqpErr.Code).Msg("mq connection lost")
	}
}

// Publish 发布消息（持久化、JSON），返回消息ID
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) (string, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", ErrClosed
	}

	msg := newMessage(p.cfg.AppID, body)
	if err := p.channel.PublishWithContext(ctx, p.cfg.Exchange, routingKey, false, false, msg); err != nil {
		return "", fmt.Errorf("发布消息失败: %w", err)
	}

	logger.Get().Debug().Str("routing_key", routingKey).Str("message_id", msg.MessageId).Int("bytes", len(body)).Msg("mq message published")
	return msg.MessageId, nil
}

func newMessage(appID string, body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Timestamp:    time.Now(),
		Body:         body,
	}
}

// Close 关闭Channel和连接，可以重复调用
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		p.closed = true
		return nil
	}
	p.closed = true
	_ = p.channel.Close()
	return p.conn.Close()
}
