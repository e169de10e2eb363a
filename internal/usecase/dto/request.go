package dto

// ListStationsRequest - параметры табличного представления
type ListStationsRequest struct {
	Search    string `query:"search"`
	City      string `query:"city"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
	Page      int    `query:"page"`
	PageSize  int    `query:"page_size"`
}

// PrefixSearchRequest - параметры префиксного поиска
type PrefixSearchRequest struct {
	Term  string `query:"q" validate:"required"`
	Limit int    `query:"limit"`
}

// NearbyRequest - поиск станций в радиусе от точки
type NearbyRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	RadiusKm  float64 `json:"radius_km" validate:"required,gt=0"`
}

// CreateStationRequest - данные для создания станции
type CreateStationRequest struct {
	Name      string   `json:"name" validate:"required"`
	Address   string   `json:"address" validate:"required"`
	City      string   `json:"city"`
	Phone     *string  `json:"phone,omitempty"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	Price     float64  `json:"price" validate:"required,gt=0"`
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Services  []string `json:"services"`
}

// UpdateStationRequest - частичное обновление: валидируются только
// присланные поля
type UpdateStationRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Address   *string   `json:"address,omitempty" validate:"omitempty,min=1"`
	City      *string   `json:"city,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Price     *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Latitude  *float64  `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64  `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Services  *[]string `json:"services,omitempty"`
	IsActive  *bool     `json:"is_active,omitempty"`
}

// SelectStationRequest - выбор станции, общий для таблицы и карты
type SelectStationRequest struct {
	StationID string `json:"station_id" validate:"required"`
}
