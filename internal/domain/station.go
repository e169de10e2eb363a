package domain

import "time"

// Coordinates - географическая позиция станции
type Coordinates struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Station представляет автозаправочную станцию
type Station struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Address   string      `json:"address" db:"address"`
	City      string      `json:"city" db:"city"`
	Phone     *string     `json:"phone,omitempty" db:"phone"`
	Email     *string     `json:"email,omitempty" db:"email"`
	Price     float64     `json:"price" db:"price"`
	Location  Coordinates `json:"location"`
	Services  []string    `json:"services"`
	IsActive  bool        `json:"is_active" db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	CreatedBy string      `json:"created_by" db:"created_by"`
}

// StationWithDistance - станция с вычисленным расстоянием до точки запроса
type StationWithDistance struct {
	Station    *Station `json:"station"`
	DistanceKm float64  `json:"distance_km"`
}

// Ключи сортировки табличного представления
const (
	SortByName      = "name"
	SortByAddress   = "address"
	SortByPrice     = "price"
	SortByCreatedAt = "created_at"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ValidSortBy проверяет, что ключ сортировки поддерживается
func ValidSortBy(sortBy string) bool {
	switch sortBy {
	case SortByName, SortByAddress, SortByPrice, SortByCreatedAt:
		return true
	}
	return false
}
