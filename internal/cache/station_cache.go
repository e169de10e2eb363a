package cache

import (
	"context"
	"sync"

	"github.com/station-directory/internal/domain"
	"github.com/station-directory/internal/domain/repository"
	"go.uber.org/zap"
)

// State - состояние синхронизации кеша
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateSynced        State = "synced"
	StateErrored       State = "errored"
)

// StationCache держит в памяти авторитетный упорядоченный снапшот всех
// активных станций и обновляет его единственной постоянной подпиской на
// хранилище. Это единственный источник данных для всех представлений.
//
// Дисциплина доступа: пишет только коллбек подписки, читают проекции и
// координатор выбора; RWMutex оформляет этот single-writer контракт в
// многопоточном HTTP-процессе.
type StationCache struct {
	mu          sync.RWMutex
	state       State
	snapshot    []*domain.Station
	byID        map[string]*domain.Station
	err         error
	subscribers map[int]chan []*domain.Station
	nextSubID   int
	store       repository.StationStore
	unsubscribe repository.Unsubscribe
	closed      bool
	closeOnce   sync.Once
	logger      *zap.Logger
}

// New создает кеш и сразу открывает подписку на хранилище.
// Кеш не ретраит сбой подписки сам: при StateErrored вызывающая сторона
// переоткрывает её через Reopen.
func New(ctx context.Context, st repository.StationStore, logger *zap.Logger) (*StationCache, error) {
	c := &StationCache{
		state:       StateUninitialized,
		byID:        make(map[string]*domain.Station),
		subscribers: make(map[int]chan []*domain.Station),
		store:       st,
		logger:      logger,
	}

	c.state = StateLoading
	unsubscribe, err := st.Subscribe(ctx, c.onChange, c.onError)
	if err != nil {
		c.state = StateErrored
		c.err = err
		return nil, err
	}
	c.unsubscribe = unsubscribe

	return c, nil
}

// Reopen заново открывает подписку на хранилище после StateErrored.
// Вне Errored и после Close вызов ничего не делает.
func (c *StationCache) Reopen(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.state != StateErrored {
		c.mu.Unlock()
		return nil
	}
	old := c.unsubscribe
	c.unsubscribe = nil
	c.state = StateLoading
	c.mu.Unlock()

	if old != nil {
		old()
	}

	unsubscribe, err := c.store.Subscribe(ctx, c.onChange, c.onError)
	if err != nil {
		c.mu.Lock()
		c.state = StateErrored
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsubscribe()
		return nil
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// onChange целиком заменяет снапшот; структурное сравнение гасит
// повторные уведомления без фактических изменений
func (c *StationCache) onChange(snapshot []*domain.Station) {
	c.mu.Lock()

	if c.state == StateSynced && snapshotsEqual(c.snapshot, snapshot) {
		c.mu.Unlock()
		return
	}

	c.state = StateSynced
	c.err = nil
	c.snapshot = snapshot
	c.byID = make(map[string]*domain.Station, len(snapshot))
	for _, station := range snapshot {
		c.byID[station.ID] = station
	}

	// Рассылка идёт под мьютексом: она неблокирующая, а снятый подписчик
	// закрывает свой канал под тем же мьютексом
	for _, ch := range c.subscribers {
		// Подписчику нужен только последний снапшот: непрочитанный
		// вытесняется
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
	c.mu.Unlock()

	c.logger.Debug("Station snapshot replaced", zap.Int("count", len(snapshot)))
}

// onError переводит кеш в терминальное Errored, сохраняя последний
// годный снапшот для чтения
func (c *StationCache) onError(err error) {
	c.mu.Lock()
	c.state = StateErrored
	c.err = err
	c.mu.Unlock()

	c.logger.Error("Station subscription failed", zap.Error(err))
}

// Snapshot возвращает текущий упорядоченный снапшот
func (c *StationCache) Snapshot() []*domain.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Station, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Get возвращает станцию по id или nil
func (c *StationCache) Get(id string) *domain.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

func (c *StationCache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *StationCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Subscribe выдаёт канал, в который попадает каждый новый снапшот.
// Возвращённая функция снимает подписку и закрывает канал, так что
// range-потребитель завершается; закрытие кеша закрывает все каналы.
func (c *StationCache) Subscribe() (<-chan []*domain.Station, func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	ch := make(chan []*domain.Station, 1)
	c.subscribers[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if ch, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(ch)
		}
		c.mu.Unlock()
	}

	return ch, cancel
}

// Close снимает подписку на хранилище ровно один раз и закрывает каналы
// всех подписчиков; повторные вызовы безопасны
func (c *StationCache) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		unsubscribe := c.unsubscribe
		c.unsubscribe = nil
		c.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}

		c.mu.Lock()
		for _, ch := range c.subscribers {
			close(ch)
		}
		c.subscribers = make(map[int]chan []*domain.Station)
		c.mu.Unlock()
		c.logger.Info("Station cache closed")
	})
}

// snapshotsEqual - структурное сравнение по id и updated_at в порядке
// следования; этого достаточно, чтобы отличить реальный апдейт от
// повторной доставки того же набора
func snapshotsEqual(a, b []*domain.Station) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}
