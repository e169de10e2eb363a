package dto

import "github.com/station-directory/internal/domain"

// Pagination - метаданные страницы; totals считаются от отфильтрованного
// набора, не от полного
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	PageSize    int  `json:"page_size"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// StationListResponse - страница табличного представления
type StationListResponse struct {
	Stations   []*domain.Station `json:"stations"`
	Pagination Pagination        `json:"pagination"`
}

// NearbyStation - станция с расстоянием до точки запроса
type NearbyStation struct {
	Station    *domain.Station `json:"station"`
	DistanceKm float64         `json:"distance_km"`
}

// NearbyResponse - станции в радиусе, ближние первыми
type NearbyResponse struct {
	Stations []NearbyStation `json:"stations"`
}

// Marker - маркер для картографической поверхности
type Marker struct {
	ID          string             `json:"id"`
	Position    domain.Coordinates `json:"position"`
	Label       string             `json:"label"`
	Highlighted bool               `json:"highlighted"`
}

// MapViewResponse - всё, что нужно карте: центр, зум и маркеры
type MapViewResponse struct {
	Center  domain.Coordinates `json:"center"`
	Zoom    int                `json:"zoom"`
	Markers []Marker           `json:"markers"`
}

// SelectionResponse - текущий выбор, разрешённый по живому снапшоту
type SelectionResponse struct {
	SelectedStationID *string         `json:"selected_station_id"`
	SelectedStation   *domain.Station `json:"selected_station"`
}
