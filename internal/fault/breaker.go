package fault

import (
	"log/slog"
	"sync"
	"time"
)

// State — состояние circuit breaker.
type State string

// Состояния breaker.
const (
	// StateClosed — нормальная работа, запросы проходят.
	StateClosed State = "CLOSED"

	// StateOpen — ресурс падает, запросы отклоняются (fail-fast).
	StateOpen State = "OPEN"

	// StateHalfOpen — проверка восстановления: пропускаются
	// пробные запросы.
	StateHalfOpen State = "HALF_OPEN"
)

// BreakerConfig — пороги circuit breaker.
type BreakerConfig struct {
	// FailureThreshold — число последовательных ошибок до открытия.
	FailureThreshold int

	// SuccessThreshold — число последовательных успехов в HALF_OPEN
	// до закрытия.
	SuccessThreshold int

	// Timeout — сколько держать breaker открытым до пробы восстановления.
	Timeout time.Duration
}

// DatabaseBreakerConfig — пороги для реляционных источников.
func DatabaseBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          60 * time.Second,
	}
}

// APIBreakerConfig — более щадящие пороги для API-источников:
// у них временные сбои чаще и дешевле.
func APIBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// Breaker — circuit breaker одного именованного ресурса.
//
// Переходы:
//
//	CLOSED → OPEN       после FailureThreshold последовательных ошибок
//	OPEN → HALF_OPEN    лениво, при чтении состояния после Timeout
//	HALF_OPEN → CLOSED  после SuccessThreshold последовательных успехов
//	HALF_OPEN → OPEN    немедленно при любой ошибке
//
// Фонового таймера нет: переход OPEN→HALF_OPEN происходит при
// следующем чтении состояния. Все мутации под мьютексом.
type Breaker struct {
	name   string
	config BreakerConfig
	logger *slog.Logger

	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	// now подменяется в тестах.
	now func() time.Time
}

// NewBreaker создаёт Breaker в состоянии CLOSED.
func NewBreaker(name string, config BreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Breaker{
		name:   name,
		config: config,
		logger: logger,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Name возвращает имя ресурса.
func (b *Breaker) Name() string { return b.name }

// State возвращает текущее состояние, лениво выполняя переход
// OPEN→HALF_OPEN по истечении Timeout.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && !b.lastFailureTime.IsZero() {
		if b.now().Sub(b.lastFailureTime) >= b.config.Timeout {
			b.state = StateHalfOpen
			b.logger.Info("circuit breaker state change",
				"resource", b.name,
				"from", StateOpen,
				"to", StateHalfOpen,
			)
		}
	}
	return b.state
}

// AllowRequest сообщает, можно ли выполнять запрос к ресурсу.
// Чистое чтение состояния (с учётом ленивого перехода).
func (b *Breaker) AllowRequest() bool {
	return b.State() != StateOpen
}

// RecordSuccess фиксирует успешный вызов.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
			b.logger.Info("circuit breaker state change",
				"resource", b.name,
				"from", StateHalfOpen,
				"to", StateClosed,
			)
		}
	case StateClosed:
		b.failureCount = 0
	}
}

// RecordFailure фиксирует неуспешный вызов.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailureTime = b.now()

	switch b.stateLocked() {
	case StateHalfOpen:
		b.state = StateOpen
		b.successCount = 0
		b.logger.Warn("circuit breaker state change",
			"resource", b.name,
			"from", StateHalfOpen,
			"to", StateOpen,
		)
	case StateClosed:
		if b.failureCount >= b.config.FailureThreshold {
			b.state = StateOpen
			b.logger.Warn("circuit breaker state change",
				"resource", b.name,
				"from", StateClosed,
				"to", StateOpen,
				"failures", b.failureCount,
			)
		}
	}
}

// FailureCount возвращает счётчик последовательных ошибок.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}

// Registry — реестр breakers по имени ресурса.
//
// Jobs против одного источника разделяют один Breaker: всплеск
// одновременных ошибок по одному источнику открывает его breaker
// и fail-fast'ит последующие попытки, не задевая другие ресурсы.
type Registry struct {
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry создаёт пустой Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:   logger,
		breakers: make(map[string]*Breaker),
	}
}

// Get возвращает breaker ресурса, создавая его при первом обращении.
func (r *Registry) Get(name string, config BreakerConfig) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[name]; ok {
		return b
	}

	b := NewBreaker(name, config, r.logger)
	r.breakers[name] = b
	return b
}

// States возвращает снимок состояний всех breakers (для summary/метрик).
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make(map[string]State, len(r.breakers))
	for name, b := range r.breakers {
		states[name] = b.State()
	}
	return states
}
