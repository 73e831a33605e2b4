package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Watcher is the Monitor fed by OS-level reachability signals.
// An online signal is trusted only after the probe confirms it.
type Watcher struct {
	probe   Probe
	logger  *slog.Logger
	subs    map[int]*subscriber
	nowFunc func() time.Time
	mu      sync.Mutex
	nextID  int
	online  bool
}

var _ Monitor = (*Watcher)(nil)

// NewWatcher creates a watcher whose initial state is the result of an
// immediate probe.
func NewWatcher(ctx context.Context, probe Probe, logger *slog.Logger) *Watcher {
	w := &Watcher{
		probe:   probe,
		logger:  logger,
		subs:    make(map[int]*subscriber),
		nowFunc: time.Now,
	}
	w.online = w.check(ctx)

	logger.Info("Connectivity initialized", "online", w.online)
	return w
}

// Online returns the current state.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// Report feeds an OS signal. signal=false switches to offline right away;
// signal=true is confirmed by the probe first.
func (w *Watcher) Report(ctx context.Context, signal bool) {
	online := false
	if signal {
		online = w.check(ctx)
	}
	w.Set(online)
}

// Set forces the state and publishes a transition if it changed.
func (w *Watcher) Set(online bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.online == online {
		return
	}
	w.online = online

	event := Event{Online: online, At: w.nowFunc()}
	w.logger.Info("Connectivity changed", "event", event.String())

	// Публикация под w.mu сохраняет порядок событий для всех подписчиков
	for _, sub := range w.subs {
		sub.push(event)
	}
}

// Subscribe registers a new subscriber.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	sub := newSubscriber()

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = sub
	w.mu.Unlock()

	go sub.pump()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
			sub.stop()
		})
	}

	return sub.out, cancel
}

// Close ends all subscriptions.
func (w *Watcher) Close() {
	w.mu.Lock()
	subs := w.subs
	w.subs = make(map[int]*subscriber)
	w.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (w *Watcher) check(ctx context.Context) bool {
	if w.probe == nil {
		return true
	}
	if err := w.probe.Check(ctx); err != nil {
		w.logger.Debug("Connectivity probe failed", "error", err)
		return false
	}
	return true
}

// subscriber буферизует события без ограничения, чтобы медленный
// потребитель не блокировал публикацию и не терял переходы
type subscriber struct {
	notify chan struct{}
	done   chan struct{}
	out    chan Event
	queue  []Event
	mu     sync.Mutex
	once   sync.Once
}

func newSubscriber() *subscriber {
	return &subscriber{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan Event),
	}
}

func (s *subscriber) push(event Event) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- event:
		case <-s.done:
			return
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}
