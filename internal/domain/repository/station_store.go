package repository

import (
	"context"

	"github.com/station-directory/internal/domain"
)

// Unsubscribe отключает подписку. Идемпотентна: после первого возврата
// коллбеки не вызываются, повторные вызовы безопасны.
type Unsubscribe func()

// StationStore - фасад удалённого хранилища станций: CRUD плюс живая подписка
// на полный снапшот активного набора
type StationStore interface {
	Create(ctx context.Context, data domain.CreateStation, createdBy string) (*domain.Station, error)
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	Update(ctx context.Context, id string, data domain.UpdateStation) (*domain.Station, error)
	Delete(ctx context.Context, id string) error

	// Subscribe открывает постоянный фид: onChange получает полный текущий
	// снапшот при открытии и после каждого изменения; onError вызывается при
	// невосстановимой ошибке, после чего фид завершается
	Subscribe(ctx context.Context, onChange func([]*domain.Station), onError func(error)) (Unsubscribe, error)
}
