package domain

// Операции над коллекцией станций, публикуемые в фид изменений
const (
	ChangeOpCreate = "create"
	ChangeOpUpdate = "update"
	ChangeOpDelete = "delete"
)

// StationChangeEvent - событие изменения коллекции станций
type StationChangeEvent struct {
	StationID string `json:"station_id"`
	Op        string `json:"op"`
}

// ChangeMessage - сырое сообщение из фида изменений
type ChangeMessage struct {
	ID   string
	Data string
}
