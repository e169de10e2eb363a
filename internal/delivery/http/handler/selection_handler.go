package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/pkg/utils"
	"github.com/station-directory/internal/pkg/validator"
	"github.com/station-directory/internal/usecase"
	"github.com/station-directory/internal/usecase/dto"
)

// SelectionHandler - общий для таблицы и карты выбор станции
type SelectionHandler struct {
	selectionUC *usecase.SelectionUseCase
	logger      *zap.Logger
}

// NewSelectionHandler - создание нового SelectionHandler
func NewSelectionHandler(selectionUC *usecase.SelectionUseCase, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		selectionUC: selectionUC,
		logger:      logger,
	}
}

// Get - текущий выбор, разрешённый по живому снапшоту
func (h *SelectionHandler) Get(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.selectionResponse(), nil)
}

// Select - выбрать станцию (строка таблицы или маркер карты)
func (h *SelectionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectStationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validator.ToAppError(err))
	}

	if err := h.selectionUC.Select(req.StationID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, h.selectionResponse(), nil)
}

// Clear - сбросить выбор
func (h *SelectionHandler) Clear(c *fiber.Ctx) error {
	h.selectionUC.Clear()
	return utils.SendSuccess(c, h.selectionResponse(), nil)
}

func (h *SelectionHandler) selectionResponse() dto.SelectionResponse {
	resp := dto.SelectionResponse{}
	if station := h.selectionUC.Selected(); station != nil {
		resp.SelectedStation = station
		resp.SelectedStationID = &station.ID
	}
	return resp
}
