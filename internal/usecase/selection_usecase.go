package usecase

import (
	"sync"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/pkg/errors"
)

// SelectionUseCase держит единственный selectedStationId, который читают и
// пишут обе поверхности (таблица и карта): одно общее состояние, расходиться
// им не в чем. Станция разрешается по живому снапшоту, так что после
// удаления выбор сам становится пустым.
type SelectionUseCase struct {
	mu       sync.RWMutex
	selected string
	cache    *cache.StationCache
}

// NewSelectionUseCase - создание нового SelectionUseCase
func NewSelectionUseCase(c *cache.StationCache) *SelectionUseCase {
	return &SelectionUseCase{cache: c}
}

// Select выбирает станцию; она обязана существовать в текущем снапшоте
func (uc *SelectionUseCase) Select(id string) error {
	if uc.cache.Get(id) == nil {
		return errors.ErrStationNotFound
	}

	uc.mu.Lock()
	uc.selected = id
	uc.mu.Unlock()
	return nil
}

// Clear сбрасывает выбор
func (uc *SelectionUseCase) Clear() {
	uc.mu.Lock()
	uc.selected = ""
	uc.mu.Unlock()
}

// SelectedID возвращает id выбранной станции или пустую строку
func (uc *SelectionUseCase) SelectedID() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.selected
}

// Selected возвращает выбранную станцию по текущему снапшоту;
// nil, если выбор пуст или станция из снапшота исчезла
func (uc *SelectionUseCase) Selected() *domain.Station {
	uc.mu.RLock()
	id := uc.selected
	uc.mu.RUnlock()

	if id == "" {
		return nil
	}
	return uc.cache.Get(id)
}
