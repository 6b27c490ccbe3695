// Package reservation конечный автомат выбора короткой ссылки: валидация ввода,
// отложенная проверка доступности и принудительный переход в Taken при конфликте.
package reservation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/utils"
)

// DefaultDebounce пауза после последнего нажатия перед запросом доступности.
const DefaultDebounce = 500 * time.Millisecond

// Checker проверяет доступность короткой ссылки на сервере.
type Checker interface {
	CheckAvailability(ctx context.Context, shortURL string) (bool, error)
}

// CheckerFunc позволяет использовать функцию как Checker.
type CheckerFunc func(ctx context.Context, shortURL string) (bool, error)

func (f CheckerFunc) CheckAvailability(ctx context.Context, shortURL string) (bool, error) {
	return f(ctx, shortURL)
}

type Options struct {
	Debounce time.Duration
}

func WithDebounce(d time.Duration) func(*Options) {
	return func(o *Options) {
		o.Debounce = d
	}
}

// Reservation хранит текущее значение ссылки и ее состояние. Безопасна для
// конкурентного использования: результаты проверок приходят из горутин таймера.
//
// Каждый ввод увеличивает номер поколения, отменяет ожидающий таймер и текущий запрос.
// Результат проверки устаревшего поколения отбрасывается.
type Reservation struct {
	checker  Checker
	logger   *logrus.Entry
	debounce time.Duration

	mu        sync.Mutex
	value     string
	state     State
	gen       uint64
	timer     *time.Timer
	cancel    context.CancelFunc
	settled   chan struct{}
	listeners []func(State)
	closed    bool

	wg sync.WaitGroup
}

func New(checker Checker, logger *logrus.Logger, opts ...func(*Options)) *Reservation {
	o := Options{Debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return &Reservation{
		checker:  checker,
		logger:   logger.WithField("module", "client/reservation"),
		debounce: o.Debounce,
		state:    Empty,
	}
}

// OnChange подписывает на смену состояния. Подписчик может вызываться из горутины таймера.
func (r *Reservation) OnChange(fn func(State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Input обрабатывает новое значение поля ввода.
func (r *Reservation) Input(value string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.invalidateLocked()
	r.value = value

	var next State
	switch {
	case strings.TrimSpace(value) == "":
		next = Empty
	case !utils.IsValidURLPath(value):
		next = Invalid
	default:
		next = Checking
		gen := r.gen
		r.wg.Add(1)
		r.timer = time.AfterFunc(r.debounce, func() {
			defer r.wg.Done()
			r.check(gen, value)
		})
	}
	notify := r.setStateLocked(next)
	r.mu.Unlock()
	notify()
}

// Conflict переводит резервирование в Taken: сервер ответил 409 на создание.
// Ожидающая проверка отменяется.
func (r *Reservation) Conflict() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.invalidateLocked()
	notify := r.setStateLocked(Taken)
	r.mu.Unlock()

	r.logger.WithField("short_url", r.Value()).Debug("conflict on create, url marked as taken")
	notify()
}

func (r *Reservation) Value() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

func (r *Reservation) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CanSubmit отправка разрешена только для доступной ссылки.
func (r *Reservation) CanSubmit() bool {
	return r.State() == Available
}

// WaitSettled ждет выхода из Checking и возвращает итоговое состояние.
func (r *Reservation) WaitSettled(ctx context.Context) (State, error) {
	for {
		r.mu.Lock()
		state, ch := r.state, r.settled
		r.mu.Unlock()
		if state != Checking {
			return state, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Close отменяет ожидающие проверки и дожидается завершения запущенных.
func (r *Reservation) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		r.invalidateLocked()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Reservation) check(gen uint64, value string) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	available, err := r.checker.CheckAvailability(ctx, value)
	cancel()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.logger.WithField("short_url", value).Debug("stale availability result dropped")
		return
	}
	r.cancel = nil

	next := Taken
	if err != nil {
		// проверка не удалась: считаем ссылку свободной, гонку закроет 409 при создании
		r.logger.WithError(err).WithField("short_url", value).Warn("availability check failed")
		next = Available
	} else if available {
		next = Available
	}
	notify := r.setStateLocked(next)
	r.mu.Unlock()
	notify()
}

// invalidateLocked начинает новое поколение: останавливает таймер и отменяет запрос.
func (r *Reservation) invalidateLocked() {
	r.gen++
	if r.timer != nil {
		if r.timer.Stop() {
			r.wg.Done()
		}
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Reservation) setStateLocked(next State) func() {
	prev := r.state
	if prev == next {
		return func() {}
	}
	r.state = next
	switch {
	case next == Checking:
		r.settled = make(chan struct{})
	case prev == Checking:
		close(r.settled)
	}

	listeners := make([]func(State), len(r.listeners))
	copy(listeners, r.listeners)
	return func() {
		for _, fn := range listeners {
			fn(next)
		}
	}
}
