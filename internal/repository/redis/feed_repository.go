package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"go.uber.org/zap"
)

type feedRepository struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewFeedRepository создает фид изменений коллекции станций поверх Redis Streams
func NewFeedRepository(client *redis.Client, stream string, logger *zap.Logger) repository.ChangeFeed {
	return &feedRepository{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Publish публикует событие изменения в стрим
func (r *feedRepository) Publish(ctx context.Context, event domain.StationChangeEvent) error {
	// Сериализуем данные в JSON
	jsonData, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("Failed to marshal change event",
			zap.String("stream", r.stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()

	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", r.stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Change event published",
		zap.String("stream", r.stream),
		zap.String("message_id", result),
		zap.String("station_id", event.StationID),
		zap.String("op", event.Op))
	return nil
}

// Consume читает сообщения из стрима начиная с новых ("$").
// Каждый потребитель получает все события: consumer group здесь не нужна,
// фид раздаётся каждому подписчику целиком.
func (r *feedRepository) Consume(ctx context.Context) (<-chan domain.ChangeMessage, error) {
	msgChan := make(chan domain.ChangeMessage, 10)

	go func() {
		defer close(msgChan)

		lastID := "$"

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Change feed consumer stopped",
					zap.String("stream", r.stream))
				return
			default:
				// XRead блокирует на 1 секунду, ожидая новых сообщений
				result, err := r.client.XRead(ctx, &redis.XReadArgs{
					Streams: []string{r.stream, lastID},
					Count:   10,
					Block:   1 * time.Second,
				}).Result()

				if err != nil {
					if err == redis.Nil {
						// Нет новых сообщений - продолжаем ждать
						continue
					}
					if ctx.Err() != nil {
						return
					}
					r.logger.Error("Failed to read from stream",
						zap.String("stream", r.stream),
						zap.Error(err))
					time.Sleep(time.Second)
					continue
				}

				for _, stream := range result {
					for _, msg := range stream.Messages {
						lastID = msg.ID

						data, ok := msg.Values["data"].(string)
						if !ok {
							r.logger.Warn("Message does not contain 'data' field",
								zap.String("message_id", msg.ID))
							continue
						}

						select {
						case msgChan <- domain.ChangeMessage{
							ID:   msg.ID,
							Data: data,
						}:
						case <-ctx.Done():
							return
						}
					}
				}
			}
		}
	}()

	return msgChan, nil
}
