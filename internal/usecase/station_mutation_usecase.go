package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/pkg/validator"
	"github.com/station-directory/internal/usecase/dto"
)

// StationMutationUseCase - интенты create/update/delete. Пишет только через
// хранилище; кеш он не трогает - результат мутации доезжает до представлений
// исключительно через подписку, других путей нет.
type StationMutationUseCase struct {
	store  repository.StationStore
	logger *zap.Logger
}

// NewStationMutationUseCase - создание нового StationMutationUseCase
func NewStationMutationUseCase(store repository.StationStore, logger *zap.Logger) *StationMutationUseCase {
	return &StationMutationUseCase{
		store:  store,
		logger: logger,
	}
}

// Create валидирует данные локально и пишет новую станцию.
// При нарушении валидации до хранилища запрос не доходит.
func (uc *StationMutationUseCase) Create(
	ctx context.Context,
	req dto.CreateStationRequest,
	createdBy string,
) (*domain.Station, error) {
	if err := validator.Validate(&req); err != nil {
		return nil, validator.ToAppError(err)
	}

	station, err := uc.store.Create(ctx, domain.CreateStation{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
		Price:   req.Price,
		Location: domain.Coordinates{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		Services: req.Services,
	}, createdBy)
	if err != nil {
		uc.logger.Error("Failed to create station", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Station created",
		zap.String("id", station.ID),
		zap.String("name", station.Name),
		zap.String("created_by", createdBy))
	return station, nil
}

// Update применяет частичное обновление; валидируются только присланные поля
func (uc *StationMutationUseCase) Update(
	ctx context.Context,
	id string,
	req dto.UpdateStationRequest,
) (*domain.Station, error) {
	if err := validator.Validate(&req); err != nil {
		return nil, validator.ToAppError(err)
	}

	update := domain.UpdateStation{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		Email:    req.Email,
		Price:    req.Price,
		Services: req.Services,
		IsActive: req.IsActive,
	}
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return nil, errors.ErrValidation.WithDetails(map[string]interface{}{
				"location": "latitude and longitude must be updated together",
			})
		}
		update.Location = &domain.Coordinates{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
	}

	if update.Empty() {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{
			"body": "no fields to update",
		})
	}

	station, err := uc.store.Update(ctx, id, update)
	if err != nil {
		uc.logger.Error("Failed to update station", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Station updated", zap.String("id", id))
	return station, nil
}

// Delete помечает станцию неактивной (мягкое удаление); из активных
// выборок она пропадает со следующим снапшотом подписки
func (uc *StationMutationUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.ErrValidation.WithDetails(map[string]interface{}{
			"id": "required",
		})
	}

	if err := uc.store.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete station", zap.String("id", id), zap.Error(err))
		return err
	}

	uc.logger.Info("Station deleted", zap.String("id", id))
	return nil
}
