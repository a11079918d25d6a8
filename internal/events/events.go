// Package events 发布排班领域事件
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/paiban/roster/pkg/logger"
)

// 事件路由键
const (
	RosterGenerated = "roster.generated"
	RosterEdited    = "roster.edited"
)

// Event 事件信封
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
	Payload    any       `json:"payload"`
}

// Generated 月度排班生成完成
type Generated struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Employees   int     `json:"employees"`
	Shifts      int     `json:"shifts"`
	Cost        float64 `json:"cost"`
	Fingerprint string  `json:"fingerprint"`
}

// Edited 单次班次修改已生效
type Edited struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Code       string `json:"code"`
}

// Publisher 事件发布者
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NewEvent 创建事件信封
func NewEvent(ctx context.Context, routingKey string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		RequestID:  logger.RequestID(ctx),
		Payload:    payload,
	}
}

// Noop 不发布任何事件，未配置消息队列时使用
type Noop struct{}

// Publish 丢弃事件
func (Noop) Publish(context.Context, string, any) error { return nil }

// AMQPPublisher 通过 RabbitMQ topic 交换机发布事件
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	timeout  time.Duration

	mu sync.Mutex // amqp.Channel 不支持并发发布
	ch *amqp.Channel
}

// NewAMQPPublisher 连接 RabbitMQ 并声明交换机
func NewAMQPPublisher(url, exchange string, timeout time.Duration) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("无法连接到 rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("无法建立通道: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("无法声明交换机: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, timeout: timeout}, nil
}

// Publish 发布事件
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	event := NewEvent(ctx, routingKey, payload)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(pctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         routingKey,
		Body:         body,
	})
}

// Close 关闭通道与连接
func (p *AMQPPublisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}
