package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"github.com/station-directory/internal/pkg/errors"
	"go.uber.org/zap"
)

type stationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStationRepository создает новый экземпляр StationRepository
func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const stationColumns = `
	id, name, address, city, phone, email, price,
	latitude, longitude, services, is_active,
	created_at, updated_at, created_by
`

func (r *stationRepository) Create(
	ctx context.Context,
	data domain.CreateStation,
	createdBy string,
) (*domain.Station, error) {
	id := uuid.NewString()

	servicesJSON, err := json.Marshal(normalizeServices(data.Services))
	if err != nil {
		return nil, errors.ErrWrite.WithCause(err)
	}

	// created_at и updated_at назначает сервер; при создании они совпадают
	query := `
		INSERT INTO stations (
			id, name, address, city, phone, email, price,
			latitude, longitude, services, is_active,
			created_at, updated_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, now(), now(), $11)
		RETURNING ` + stationColumns

	row := r.db.QueryRowContext(ctx, query,
		id, data.Name, data.Address, data.City, data.Phone, data.Email,
		data.Price, data.Location.Latitude, data.Location.Longitude,
		servicesJSON, createdBy,
	)

	station, err := scanStation(row)
	if err != nil {
		r.logger.Error("Failed to create station", zap.Error(err))
		return nil, errors.ErrWrite.WithCause(err)
	}

	return station, nil
}

func (r *stationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`

	station, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrStationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get station by ID", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrRead.WithCause(err)
	}

	return station, nil
}

func (r *stationRepository) Update(
	ctx context.Context,
	id string,
	data domain.UpdateStation,
) (*domain.Station, error) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 10)
	argIdx := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if data.Name != nil {
		addSet("name", *data.Name)
	}
	if data.Address != nil {
		addSet("address", *data.Address)
	}
	if data.City != nil {
		addSet("city", *data.City)
	}
	if data.Phone != nil {
		addSet("phone", *data.Phone)
	}
	if data.Email != nil {
		addSet("email", *data.Email)
	}
	if data.Price != nil {
		addSet("price", *data.Price)
	}
	if data.Location != nil {
		addSet("latitude", data.Location.Latitude)
		addSet("longitude", data.Location.Longitude)
	}
	if data.Services != nil {
		servicesJSON, err := json.Marshal(normalizeServices(*data.Services))
		if err != nil {
			return nil, errors.ErrWrite.WithCause(err)
		}
		addSet("services", servicesJSON)
	}
	if data.IsActive != nil {
		addSet("is_active", *data.IsActive)
	}

	// updated_at освежается при каждом успешном обновлении
	query := "UPDATE stations SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	if len(sets) > 0 {
		query += ", "
	}
	query += fmt.Sprintf("updated_at = now() WHERE id = $%d RETURNING %s", argIdx, stationColumns)
	args = append(args, id)

	station, err := scanStation(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errors.ErrWrite.WithDetails(map[string]interface{}{"id": id})
	}
	if err != nil {
		r.logger.Error("Failed to update station", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrWrite.WithCause(err)
	}

	return station, nil
}

func (r *stationRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE stations SET is_active = FALSE, updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete station", zap.String("id", id), zap.Error(err))
		return errors.ErrWrite.WithCause(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.ErrWrite.WithCause(err)
	}
	if affected == 0 {
		return errors.ErrWrite.WithDetails(map[string]interface{}{"id": id})
	}

	return nil
}

func (r *stationRepository) ListActive(ctx context.Context) ([]*domain.Station, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active stations", zap.Error(err))
		return nil, errors.ErrRead.WithCause(err)
	}
	defer rows.Close()

	stations := make([]*domain.Station, 0)
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			// Битую запись выбрасываем из снапшота, фид не прерываем
			r.logger.Warn("Dropping station record that failed to decode",
				zap.String("code", errors.ErrDecode.Code),
				zap.Error(err))
			continue
		}
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate stations", zap.Error(err))
		return nil, errors.ErrRead.WithCause(err)
	}

	return stations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanStation декодирует строку stations с дефолтами для отсутствующих полей:
// timestamps -> now, services -> пустой список, is_active -> true
func scanStation(row rowScanner) (*domain.Station, error) {
	var s domain.Station
	var servicesJSON []byte
	var isActive sql.NullBool
	var createdAt, updatedAt sql.NullTime
	var city, createdBy sql.NullString

	err := row.Scan(
		&s.ID, &s.Name, &s.Address, &city, &s.Phone, &s.Email, &s.Price,
		&s.Location.Latitude, &s.Location.Longitude, &servicesJSON, &isActive,
		&createdAt, &updatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.City = city.String
	s.CreatedBy = createdBy.String
	s.IsActive = !isActive.Valid || isActive.Bool
	s.CreatedAt = now
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}
	s.UpdatedAt = now
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}

	s.Services = make([]string, 0)
	if len(servicesJSON) > 0 {
		if err := json.Unmarshal(servicesJSON, &s.Services); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func normalizeServices(services []string) []string {
	if services == nil {
		return []string{}
	}
	return services
}
