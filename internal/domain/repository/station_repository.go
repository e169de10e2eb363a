package repository

import (
	"context"

	"github.com/station-directory/internal/domain"
)

// StationRepository определяет методы для работы с коллекцией станций в Postgres
type StationRepository interface {
	// Create записывает новую станцию и возвращает её с назначенным id
	Create(ctx context.Context, data domain.CreateStation, createdBy string) (*domain.Station, error)

	// GetByID возвращает станцию по id
	GetByID(ctx context.Context, id string) (*domain.Station, error)

	// Update применяет частичное обновление и всегда освежает updated_at
	Update(ctx context.Context, id string, data domain.UpdateStation) (*domain.Station, error)

	// SoftDelete помечает станцию неактивной
	SoftDelete(ctx context.Context, id string) error

	// ListActive возвращает полный активный набор, упорядоченный по created_at DESC
	ListActive(ctx context.Context) ([]*domain.Station, error)
}
