package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/config"
	delivery "github.com/station-directory/internal/delivery/http"
	"github.com/station-directory/internal/delivery/http/handler"
	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/usecase"
)

const testSecret = "test-session-secret"

// fakeStore - хранилище в памяти: мутации видны только через подписку,
// как и у настоящего фасада
type fakeStore struct {
	mu       sync.Mutex
	stations []*domain.Station
	onChange func([]*domain.Station)

	lastCreatedBy string
}

func (s *fakeStore) snapshot() []*domain.Station {
	out := make([]*domain.Station, 0, len(s.stations))
	for _, station := range s.stations {
		if station.IsActive {
			out = append(out, station)
		}
	}
	return out
}

func (s *fakeStore) notify() {
	if s.onChange != nil {
		s.onChange(s.snapshot())
	}
}

func (s *fakeStore) Create(ctx context.Context, data domain.CreateStation, createdBy string) (*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	station := &domain.Station{
		ID:        "generated-id",
		Name:      data.Name,
		Address:   data.Address,
		City:      data.City,
		Phone:     data.Phone,
		Email:     data.Email,
		Price:     data.Price,
		Location:  data.Location,
		Services:  data.Services,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
	}
	s.stations = append(s.stations, station)
	s.lastCreatedBy = createdBy
	s.notify()
	return station, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, station := range s.stations {
		if station.ID == id {
			return station, nil
		}
	}
	return nil, errors.ErrStationNotFound
}

func (s *fakeStore) Update(ctx context.Context, id string, data domain.UpdateStation) (*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, station := range s.stations {
		if station.ID != id {
			continue
		}
		if data.Price != nil {
			station.Price = *data.Price
		}
		if data.Name != nil {
			station.Name = *data.Name
		}
		station.UpdatedAt = time.Now()
		s.notify()
		return station, nil
	}
	return nil, errors.ErrStationNotFound
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, station := range s.stations {
		if station.ID == id {
			station.IsActive = false
			s.notify()
			return nil
		}
	}
	return errors.ErrStationNotFound
}

func (s *fakeStore) Subscribe(
	ctx context.Context,
	onChange func([]*domain.Station),
	onError func(error),
) (repository.Unsubscribe, error) {
	s.mu.Lock()
	s.onChange = onChange
	snapshot := s.snapshot()
	s.mu.Unlock()

	onChange(snapshot)
	return func() {}, nil
}

func seedStation(id, name string, createdAt time.Time) *domain.Station {
	return &domain.Station{
		ID:        id,
		Name:      name,
		Address:   "Bd Anfa 12",
		City:      "Casablanca",
		Price:     12.5,
		Location:  domain.Coordinates{Latitude: 33.5731, Longitude: -7.5898},
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func newTestServer(t *testing.T, store *fakeStore) *fiber.App {
	t.Helper()

	logger := zap.NewNop()

	stationCache, err := cache.New(context.Background(), store, logger)
	require.NoError(t, err)
	t.Cleanup(stationCache.Close)

	queryUC := usecase.NewStationQueryUseCase(stationCache, logger)
	mutationUC := usecase.NewStationMutationUseCase(store, logger)
	selectionUC := usecase.NewSelectionUseCase(stationCache)

	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: testSecret}}
	srv := delivery.NewServer(
		cfg,
		logger,
		stationCache,
		handler.NewStationHandler(queryUC, mutationUC, store, stationCache, logger),
		handler.NewMapHandler(queryUC, selectionUC, logger),
		handler.NewSelectionHandler(selectionUC, logger),
	)
	return srv.App()
}

func authToken(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "operator-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (*nethttp.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := make(map[string]interface{})
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestServer_HealthIsPublic(t *testing.T) {
	store := &fakeStore{stations: []*domain.Station{seedStation("a", "Afriquia Maarif", time.Now())}}
	app := newTestServer(t, store)

	resp, body := doRequest(t, app, nethttp.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, string(cache.StateSynced), body["sync"])
}

func TestServer_StationsRequireAuth(t *testing.T) {
	store := &fakeStore{}
	app := newTestServer(t, store)

	resp, _ := doRequest(t, app, nethttp.MethodGet, "/api/v1/stations", "", nil)

	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ListStations(t *testing.T) {
	now := time.Now()
	store := &fakeStore{stations: []*domain.Station{
		seedStation("b", "Total Anfa", now),
		seedStation("a", "Afriquia Maarif", now.Add(-time.Hour)),
	}}
	app := newTestServer(t, store)
	token := authToken(t)

	resp, body := doRequest(t, app, nethttp.MethodGet, "/api/v1/stations", token, nil)

	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	stations := data["stations"].([]interface{})
	require.Len(t, stations, 2)
	first := stations[0].(map[string]interface{})
	assert.Equal(t, "b", first["id"])
}

func TestServer_CreateFlowsThroughSubscription(t *testing.T) {
	store := &fakeStore{}
	app := newTestServer(t, store)
	token := authToken(t)

	resp, body := doRequest(t, app, nethttp.MethodPost, "/api/v1/stations", token, map[string]interface{}{
		"name":      "Shell Gauthier",
		"address":   "Rue Jean Jaures 3",
		"city":      "Casablanca",
		"price":     13.2,
		"latitude":  33.58,
		"longitude": -7.63,
	})

	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]interface{})
	assert.Equal(t, "generated-id", created["id"])
	assert.Equal(t, "operator-1", store.lastCreatedBy, "created_by comes from the session")

	// Мутация доехала до таблицы через подписку
	resp, body = doRequest(t, app, nethttp.MethodGet, "/api/v1/stations", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["stations"].([]interface{}), 1)
}

func TestServer_CreateValidationError(t *testing.T) {
	store := &fakeStore{}
	app := newTestServer(t, store)

	resp, body := doRequest(t, app, nethttp.MethodPost, "/api/v1/stations", authToken(t), map[string]interface{}{
		"name":  "",
		"price": 0,
	})

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, errors.ErrValidation.Code, errBody["code"])
}

func TestServer_DeleteRemovesFromViews(t *testing.T) {
	store := &fakeStore{stations: []*domain.Station{seedStation("a", "Afriquia Maarif", time.Now())}}
	app := newTestServer(t, store)
	token := authToken(t)

	resp, _ := doRequest(t, app, nethttp.MethodDelete, "/api/v1/stations/a", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, nethttp.MethodGet, "/api/v1/stations", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Empty(t, data["stations"])
}

func TestServer_GetByIDNotFound(t *testing.T) {
	store := &fakeStore{}
	app := newTestServer(t, store)

	resp, body := doRequest(t, app, nethttp.MethodGet, "/api/v1/stations/ghost", authToken(t), nil)

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, errors.ErrStationNotFound.Code, errBody["code"])
}

func TestServer_SelectionRoundTrip(t *testing.T) {
	store := &fakeStore{stations: []*domain.Station{seedStation("a", "Afriquia Maarif", time.Now())}}
	app := newTestServer(t, store)
	token := authToken(t)

	// Таблица выбирает станцию
	resp, _ := doRequest(t, app, nethttp.MethodPut, "/api/v1/selection", token, map[string]interface{}{
		"station_id": "a",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	// Карта видит тот же выбор
	resp, body := doRequest(t, app, nethttp.MethodGet, "/api/v1/map/view", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	view := body["data"].(map[string]interface{})
	assert.Equal(t, float64(15), view["zoom"])
	markers := view["markers"].([]interface{})
	require.Len(t, markers, 1)
	assert.Equal(t, true, markers[0].(map[string]interface{})["highlighted"])

	// Сброс выбора
	resp, _ = doRequest(t, app, nethttp.MethodDelete, "/api/v1/selection", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, nethttp.MethodGet, "/api/v1/selection", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	selection := body["data"].(map[string]interface{})
	assert.Empty(t, selection["selected_station_id"])
}

func TestServer_SelectUnknownStation(t *testing.T) {
	store := &fakeStore{}
	app := newTestServer(t, store)

	resp, _ := doRequest(t, app, nethttp.MethodPut, "/api/v1/selection", authToken(t), map[string]interface{}{
		"station_id": "ghost",
	})

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}
