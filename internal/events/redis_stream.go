package events

import (
	"context"
	"fmt"
	"strconv"

	commonredis "github.com/MPanduranga55/Contact-Book/internal/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStreamPublisher 通过 XADD 把事件写入 Redis Stream
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewRedisStreamPublisher 创建 Redis Stream 发布器
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
	}
}

var _ Publisher = (*RedisStreamPublisher)(nil)

// Publish 写入一条事件；type/contact_id 作为独立字段便于消费端过滤，完整事件放在 data 字段
func (p *RedisStreamPublisher) Publish(ctx context.Context, event ContactEvent) error {
	id, err := commonredis.PublishToStream(ctx, p.client, p.stream, p.maxLen, map[string]interface{}{
		"type":       event.Type,
		"contact_id": strconv.FormatInt(event.ContactID, 10),
		"data":       event,
	})
	if err != nil {
		return fmt.Errorf("publish %s to stream %s: %w", event.Type, p.stream, err)
	}
	p.logger.Debug("contact event published",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.String("type", event.Type),
		zap.Int64("contact_id", event.ContactID),
	)
	return nil
}
