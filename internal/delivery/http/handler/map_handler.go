package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/station-directory/internal/pkg/utils"
	"github.com/station-directory/internal/usecase"
)

// MapHandler отдаёт картографической поверхности её вход: центр, зум,
// маркеры и подсветку выбранной станции
type MapHandler struct {
	queryUC     *usecase.StationQueryUseCase
	selectionUC *usecase.SelectionUseCase
	logger      *zap.Logger
}

// NewMapHandler - создание нового MapHandler
func NewMapHandler(
	queryUC *usecase.StationQueryUseCase,
	selectionUC *usecase.SelectionUseCase,
	logger *zap.Logger,
) *MapHandler {
	return &MapHandler{
		queryUC:     queryUC,
		selectionUC: selectionUC,
		logger:      logger,
	}
}

// View - проекция текущего снапшота и выбора для карты
func (h *MapHandler) View(c *fiber.Ctx) error {
	view := h.queryUC.MapView(h.selectionUC.SelectedID())

	return utils.SendSuccess(c, view, &utils.Meta{
		Total: len(view.Markers),
	})
}
