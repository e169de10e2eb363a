package store

import (
	"context"
	"sync"
	"time"

	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"github.com/station-directory/internal/pkg/errors"
	"go.uber.org/zap"
)

// StationStore - фасад удалённого хранилища: CRUD идёт в Postgres, каждое
// успешное изменение публикуется в фид, подписка отдаёт полный активный
// снапшот при открытии, после каждого события фида и по таймеру обновления.
// Таймер подстраховывает от правок, сделанных администратором напрямую в
// базе мимо фида.
type StationStore struct {
	repo            repository.StationRepository
	feed            repository.ChangeFeed
	writeTimeout    time.Duration
	refreshInterval time.Duration
	logger          *zap.Logger
}

// NewStationStore создает новый StationStore
func NewStationStore(
	repo repository.StationRepository,
	feed repository.ChangeFeed,
	writeTimeout time.Duration,
	refreshInterval time.Duration,
	logger *zap.Logger,
) *StationStore {
	return &StationStore{
		repo:            repo,
		feed:            feed,
		writeTimeout:    writeTimeout,
		refreshInterval: refreshInterval,
		logger:          logger,
	}
}

func (s *StationStore) Create(
	ctx context.Context,
	data domain.CreateStation,
	createdBy string,
) (*domain.Station, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	station, err := s.repo.Create(tctx, data, createdBy)
	if err != nil {
		return nil, s.mapTimeout(tctx, err)
	}

	s.publish(domain.StationChangeEvent{StationID: station.ID, Op: domain.ChangeOpCreate})
	return station, nil
}

func (s *StationStore) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	station, err := s.repo.GetByID(tctx, id)
	if err != nil {
		return nil, s.mapTimeout(tctx, err)
	}
	return station, nil
}

func (s *StationStore) Update(
	ctx context.Context,
	id string,
	data domain.UpdateStation,
) (*domain.Station, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	station, err := s.repo.Update(tctx, id, data)
	if err != nil {
		return nil, s.mapTimeout(tctx, err)
	}

	s.publish(domain.StationChangeEvent{StationID: station.ID, Op: domain.ChangeOpUpdate})
	return station, nil
}

func (s *StationStore) Delete(ctx context.Context, id string) error {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.SoftDelete(tctx, id); err != nil {
		return s.mapTimeout(tctx, err)
	}

	s.publish(domain.StationChangeEvent{StationID: id, Op: domain.ChangeOpDelete})
	return nil
}

// Subscribe открывает постоянную подписку на полный активный снапшот.
// Возвращённый Unsubscribe идемпотентен; после его возврата коллбеки
// гарантированно не вызываются.
func (s *StationStore) Subscribe(
	ctx context.Context,
	onChange func([]*domain.Station),
	onError func(error),
) (repository.Unsubscribe, error) {
	runCtx, cancel := context.WithCancel(ctx)

	// Фид открывается до первого чтения снапшота, чтобы не потерять
	// события между ними
	msgChan, err := s.feed.Consume(runCtx)
	if err != nil {
		cancel()
		return nil, errors.ErrRead.WithCause(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		if !s.deliver(runCtx, onChange, onError) {
			return
		}

		// Неположительный интервал выключает таймер обновления: nil-канал
		// в select никогда не срабатывает
		var refresh <-chan time.Time
		if s.refreshInterval > 0 {
			ticker := time.NewTicker(s.refreshInterval)
			defer ticker.Stop()
			refresh = ticker.C
		}

		for {
			select {
			case <-runCtx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					if runCtx.Err() == nil {
						onError(errors.ErrRead)
					}
					return
				}
				s.logger.Debug("Station change received",
					zap.String("message_id", msg.ID))
				if !s.deliver(runCtx, onChange, onError) {
					return
				}
			case <-refresh:
				if !s.deliver(runCtx, onChange, onError) {
					return
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}

	return unsubscribe, nil
}

// deliver читает полный активный снапшот и передаёт его подписчику.
// Возвращает false, если фид должен завершиться.
func (s *StationStore) deliver(
	ctx context.Context,
	onChange func([]*domain.Station),
	onError func(error),
) bool {
	snapshot, err := s.repo.ListActive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.logger.Error("Failed to read station snapshot", zap.Error(err))
		onError(err)
		return false
	}

	if ctx.Err() != nil {
		return false
	}
	onChange(snapshot)
	return true
}

func (s *StationStore) publish(event domain.StationChangeEvent) {
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	// Запись уже принята хранилищем; упавшая публикация лишь отложит
	// обновление подписчиков до следующего тика
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("station_id", event.StationID),
			zap.String("op", event.Op),
			zap.Error(err))
	}
}

func (s *StationStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.writeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.writeTimeout)
}

func (s *StationStore) mapTimeout(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.ErrTimeout.WithCause(err)
	}
	return err
}
