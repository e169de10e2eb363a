package usecase_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/usecase"
)

func TestSelectionUseCase(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	stationA := testStation("a", "Afriquia Maarif", "Rue Ibnou Sina 5", 12.1, t1)
	stationB := testStation("b", "Total Anfa", "Bd Anfa 12", 12.9, t1.Add(time.Hour))

	t.Run("select requires a known station", func(t *testing.T) {
		c, _ := newTestCache(t, []*domain.Station{stationA})
		uc := usecase.NewSelectionUseCase(c)

		err := uc.Select("ghost")

		require.True(t, stderrors.Is(err, errors.ErrStationNotFound))
		assert.Empty(t, uc.SelectedID())
	})

	t.Run("selection is shared state", func(t *testing.T) {
		c, _ := newTestCache(t, []*domain.Station{stationA, stationB})
		uc := usecase.NewSelectionUseCase(c)

		require.NoError(t, uc.Select("a"))
		assert.Equal(t, "a", uc.SelectedID())
		require.NotNil(t, uc.Selected())
		assert.Equal(t, "Afriquia Maarif", uc.Selected().Name)

		// Повторный выбор заменяет предыдущий
		require.NoError(t, uc.Select("b"))
		assert.Equal(t, "b", uc.SelectedID())
	})

	t.Run("clear resets selection", func(t *testing.T) {
		c, _ := newTestCache(t, []*domain.Station{stationA})
		uc := usecase.NewSelectionUseCase(c)

		require.NoError(t, uc.Select("a"))
		uc.Clear()

		assert.Empty(t, uc.SelectedID())
		assert.Nil(t, uc.Selected())
	})

	t.Run("selected station vanishing from snapshot resolves to nil", func(t *testing.T) {
		c, store := newTestCache(t, []*domain.Station{stationA, stationB})
		uc := usecase.NewSelectionUseCase(c)

		require.NoError(t, uc.Select("a"))

		// Станцию удалили в другом месте: подписка привезла снапшот без неё
		store.push([]*domain.Station{stationB})

		assert.Nil(t, uc.Selected())
		assert.Equal(t, "a", uc.SelectedID())
	})
}
