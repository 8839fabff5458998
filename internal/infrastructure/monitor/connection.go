package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/internal/infrastructure/storage"
)

// Probe checks one dependency.
type Probe struct {
	Name     string
	Timeout  time.Duration
	Required bool
	Check    func(ctx context.Context) (detail interface{}, err error)
}

// PostgresProbe pings the pool.
func PostgresProbe(pool *pgxpool.Pool) Probe {
	return Probe{
		Name:     "postgresql",
		Timeout:  3 * time.Second,
		Required: true,
		Check: func(ctx context.Context) (interface{}, error) {
			return nil, pool.Ping(ctx)
		},
	}
}

// RedisProbe pings Redis. Sessions and realtime events depend on it.
func RedisProbe(client *redislib.Client) Probe {
	return Probe{
		Name:     "redis",
		Timeout:  2 * time.Second,
		Required: true,
		Check: func(ctx context.Context) (interface{}, error) {
			return nil, client.Ping(ctx).Err()
		},
	}
}

// StorageProbe reports the attachment count of the local file store.
func StorageProbe(store *storage.Store) Probe {
	return Probe{
		Name:    "attachments",
		Timeout: time.Second,
		Check: func(context.Context) (interface{}, error) {
			n, err := store.Size()
			return map[string]int{"count": n}, err
		},
	}
}

type Monitor struct {
	probes []Probe

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger, probes ...Probe) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   probes,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every required dependency answered the last check.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and records the result.
func (m *Monitor) Refresh() {
	status := Status{
		Healthy:    true,
		Components: make(map[string]Component, len(m.probes)),
		LastCheck:  time.Now(),
	}
	for _, p := range m.probes {
		c := m.run(p)
		status.Components[p.Name] = c
		if p.Required && !c.Online {
			status.Healthy = false
		}
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	for name, c := range status.Components {
		if was, ok := prev.Components[name]; ok && was.Online && !c.Online {
			m.logger.Warn("dependency went offline", zap.String("component", name), zap.String("error", c.Error))
		} else if ok && !was.Online && c.Online {
			m.logger.Info("dependency back online", zap.String("component", name))
		}
	}
}

func (m *Monitor) run(p Probe) Component {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	detail, err := p.Check(ctx)
	c := Component{Online: err == nil, Detail: detail}
	if err != nil {
		c.Error = err.Error()
	}
	return c
}
