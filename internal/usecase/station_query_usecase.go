package usecase

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/pkg/utils"
	"github.com/station-directory/internal/usecase/dto"
)

const (
	defaultPageSize    = 10
	defaultSearchLimit = 10

	// Зум карты: обзорный и при выбранной станции
	mapZoomDefault  = 12
	mapZoomSelected = 15
)

// Центр карты по умолчанию - Касабланка
var defaultMapCenter = domain.Coordinates{Latitude: 33.5731, Longitude: -7.5898}

// StationQueryUseCase - чистые синхронные проекции над снапшотом кеша.
// Сеть не трогает и кеш не мутирует.
type StationQueryUseCase struct {
	cache  *cache.StationCache
	logger *zap.Logger
}

// NewStationQueryUseCase - создание нового StationQueryUseCase
func NewStationQueryUseCase(c *cache.StationCache, logger *zap.Logger) *StationQueryUseCase {
	return &StationQueryUseCase{
		cache:  c,
		logger: logger,
	}
}

// List - фильтрация, сортировка и постраничная нарезка табличного
// представления. Метаданные пагинации считаются от отфильтрованного
// набора.
func (uc *StationQueryUseCase) List(req dto.ListStationsRequest) *dto.StationListResponse {
	// Установка значений по умолчанию
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if !domain.ValidSortBy(req.SortBy) {
		req.SortBy = domain.SortByCreatedAt
	}
	if req.SortOrder != domain.SortOrderAsc && req.SortOrder != domain.SortOrderDesc {
		if req.SortBy == domain.SortByCreatedAt {
			req.SortOrder = domain.SortOrderDesc
		} else {
			req.SortOrder = domain.SortOrderAsc
		}
	}

	filtered := filterStations(uc.cache.Snapshot(), req.Search, req.City)
	sortStations(filtered, req.SortBy, req.SortOrder)

	totalItems := len(filtered)
	totalPages := (totalItems + req.PageSize - 1) / req.PageSize

	start := (req.Page - 1) * req.PageSize
	end := start + req.PageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return &dto.StationListResponse{
		Stations: filtered[start:end],
		Pagination: dto.Pagination{
			CurrentPage: req.Page,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			PageSize:    req.PageSize,
			HasNext:     req.Page < totalPages,
			HasPrev:     req.Page > 1,
		},
	}
}

// SearchPrefix - префиксный поиск по имени или адресу без учёта регистра,
// ограниченный limit
func (uc *StationQueryUseCase) SearchPrefix(term string, limit int) []*domain.Station {
	if limit < 1 {
		limit = defaultSearchLimit
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []*domain.Station{}
	}

	seen := make(map[string]bool)
	results := make([]*domain.Station, 0, limit)
	for _, station := range uc.cache.Snapshot() {
		if seen[station.ID] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(station.Name), term) ||
			strings.HasPrefix(strings.ToLower(station.Address), term) {
			seen[station.ID] = true
			results = append(results, station)
			if len(results) == limit {
				break
			}
		}
	}

	return results
}

// Nearby - линейный haversine-фильтр по радиусу, ближние первыми.
// O(n) на вызов: набор помещается в память целиком
func (uc *StationQueryUseCase) Nearby(lat, lng, radiusKm float64) *dto.NearbyResponse {
	stations := make([]dto.NearbyStation, 0)
	for _, station := range uc.cache.Snapshot() {
		distance := utils.HaversineDistance(
			lat, lng,
			station.Location.Latitude, station.Location.Longitude,
		)
		if distance <= radiusKm {
			stations = append(stations, dto.NearbyStation{
				Station:    station,
				DistanceKm: distance,
			})
		}
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].DistanceKm < stations[j].DistanceKm
	})

	return &dto.NearbyResponse{Stations: stations}
}

// MapView - проекция снапшота для картографической поверхности: при
// выбранной станции карта центрируется на ней
func (uc *StationQueryUseCase) MapView(selectedID string) *dto.MapViewResponse {
	snapshot := uc.cache.Snapshot()

	view := &dto.MapViewResponse{
		Center:  defaultMapCenter,
		Zoom:    mapZoomDefault,
		Markers: make([]dto.Marker, 0, len(snapshot)),
	}

	for _, station := range snapshot {
		highlighted := station.ID == selectedID
		if highlighted {
			view.Center = station.Location
			view.Zoom = mapZoomSelected
		}
		view.Markers = append(view.Markers, dto.Marker{
			ID:          station.ID,
			Position:    station.Location,
			Label:       station.Name,
			Highlighted: highlighted,
		})
	}

	return view
}

func filterStations(stations []*domain.Station, search, city string) []*domain.Station {
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]*domain.Station, 0, len(stations))
	for _, station := range stations {
		if search != "" &&
			!strings.Contains(strings.ToLower(station.Name), search) &&
			!strings.Contains(strings.ToLower(station.Address), search) {
			continue
		}
		if city != "" && !strings.EqualFold(station.City, city) {
			continue
		}
		filtered = append(filtered, station)
	}
	return filtered
}

// sortStations сортирует стабильно: равные ключи сохраняют порядок кеша
func sortStations(stations []*domain.Station, sortBy, sortOrder string) {
	asc := sortOrder == domain.SortOrderAsc

	sort.SliceStable(stations, func(i, j int) bool {
		a, b := stations[i], stations[j]
		if !asc {
			a, b = b, a
		}

		switch sortBy {
		case domain.SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case domain.SortByAddress:
			return strings.ToLower(a.Address) < strings.ToLower(b.Address)
		case domain.SortByPrice:
			return a.Price < b.Price
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
