package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fitgoals/backend/repository/boltdb"
)

// Monitor periodically probes the configured storage driver and Redis so the
// health endpoint reports live dependency state.
type Monitor struct {
	pg    *pgxpool.Pool
	redis *redislib.Client
	bolt  *boltdb.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

// New builds a monitor. Exactly one of pg or bolt is expected to be non-nil,
// matching the selected storage driver.
func New(pg *pgxpool.Pool, redis *redislib.Client, bolt *boltdb.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		bolt:     bolt,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	storageOK, driver, goalCount := m.checkStorage()
	status := Status{
		Storage:   storageOK,
		Driver:    driver,
		Redis:     m.checkRedis(),
		GoalCount: goalCount,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkStorage() (bool, string, int) {
	if m.pg != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return m.pg.Ping(ctx) == nil, "postgres", 0
	}
	if m.bolt != nil {
		size, err := m.bolt.Size()
		if err != nil {
			m.logger.Warn("bolt storage check failed", zap.Error(err))
			return false, "bolt", 0
		}
		return true, "bolt", size
	}
	return false, "none", 0
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}
