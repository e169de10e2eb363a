package domain

// CreateStation - данные для создания станции; id и временные метки
// назначаются хранилищем
type CreateStation struct {
	Name     string
	Address  string
	City     string
	Phone    *string
	Email    *string
	Price    float64
	Location Coordinates
	Services []string
}

// UpdateStation - частичное обновление: nil-поля не трогаются
type UpdateStation struct {
	Name     *string
	Address  *string
	City     *string
	Phone    *string
	Email    *string
	Price    *float64
	Location *Coordinates
	Services *[]string
	IsActive *bool
}

// Empty сообщает, что обновление не содержит ни одного поля
func (u UpdateStation) Empty() bool {
	return u.Name == nil && u.Address == nil && u.City == nil &&
		u.Phone == nil && u.Email == nil && u.Price == nil &&
		u.Location == nil && u.Services == nil && u.IsActive == nil
}
