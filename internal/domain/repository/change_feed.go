package repository

import (
	"context"

	"github.com/station-directory/internal/domain"
)

// ChangeFeed определяет методы для работы с фидом изменений коллекции
type ChangeFeed interface {
	// Publish публикует событие изменения в фид
	Publish(ctx context.Context, event domain.StationChangeEvent) error

	// Consume открывает поток сообщений фида; канал закрывается при отмене контекста
	Consume(ctx context.Context) (<-chan domain.ChangeMessage, error)
}
