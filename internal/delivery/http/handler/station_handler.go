package handler

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/pkg/utils"
	"github.com/station-directory/internal/pkg/validator"
	"github.com/station-directory/internal/usecase"
	"github.com/station-directory/internal/usecase/dto"
)

// StationHandler - обработчик запросов к каталогу станций
type StationHandler struct {
	queryUC    *usecase.StationQueryUseCase
	mutationUC *usecase.StationMutationUseCase
	store      repository.StationStore
	cache      *cache.StationCache
	logger     *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(
	queryUC *usecase.StationQueryUseCase,
	mutationUC *usecase.StationMutationUseCase,
	store repository.StationStore,
	c *cache.StationCache,
	logger *zap.Logger,
) *StationHandler {
	return &StationHandler{
		queryUC:    queryUC,
		mutationUC: mutationUC,
		store:      store,
		cache:      c,
		logger:     logger,
	}
}

// List - табличное представление: фильтр, сортировка, страницы
func (h *StationHandler) List(c *fiber.Ctx) error {
	var req dto.ListStationsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result := h.queryUC.List(req)

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Pagination.TotalItems,
		Page:     result.Pagination.CurrentPage,
		PageSize: result.Pagination.PageSize,
	})
}

// Search - префиксный поиск по имени или адресу
func (h *StationHandler) Search(c *fiber.Ctx) error {
	var req dto.PrefixSearchRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validator.ToAppError(err))
	}

	stations := h.queryUC.SearchPrefix(req.Term, req.Limit)

	return utils.SendSuccess(c, stations, &utils.Meta{
		Total: len(stations),
	})
}

// Nearby - станции в радиусе от точки
func (h *StationHandler) Nearby(c *fiber.Ctx) error {
	var req dto.NearbyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validator.ToAppError(err))
	}
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}
	if !utils.ValidateRadius(req.RadiusKm) {
		return utils.SendError(c, errors.ErrInvalidRadius)
	}

	result := h.queryUC.Nearby(req.Latitude, req.Longitude, req.RadiusKm)

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Stations),
	})
}

// GetByID - точечное чтение станции из хранилища
func (h *StationHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")

	station, err := h.store.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, station, nil)
}

// Create - создание станции; created_by берётся из сессии
func (h *StationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	userID, _ := c.Locals("user_id").(string)

	station, err := h.mutationUC.Create(c.Context(), req, userID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse{Data: station})
}

// Update - частичное обновление станции
func (h *StationHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.UpdateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	station, err := h.mutationUC.Update(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, station, nil)
}

// Delete - мягкое удаление станции
func (h *StationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.mutationUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"id": id, "deleted": true}, nil)
}

// Пауза между heartbeat-комментариями SSE-потока: на тихом каталоге
// только они вскрывают отвалившегося клиента
const streamHeartbeatInterval = 15 * time.Second

// Stream - SSE-поток полных снапшотов для живых представлений.
// Текущий снапшот уходит сразу, дальше - по каждому изменению кеша.
// Поток завершается при отключении клиента, отмене подписки или
// закрытии кеша.
func (h *StationHandler) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	snapshots, cancel := h.cache.Subscribe()
	current := h.cache.Snapshot()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if !writeSnapshotEvent(w, current) {
			return
		}

		heartbeat := time.NewTicker(streamHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case snapshot, ok := <-snapshots:
				if !ok {
					return
				}
				if !writeSnapshotEvent(w, snapshot) {
					return
				}
			case <-heartbeat.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if w.Flush() != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeSnapshotEvent(w *bufio.Writer, snapshot []*domain.Station) bool {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return false
	}
	if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return false
	}
	// Flush падает, когда клиент отключился - на этом поток завершается
	return w.Flush() == nil
}
