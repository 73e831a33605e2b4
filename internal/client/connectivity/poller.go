package connectivity

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// DefaultPollInterval is how often the Poller samples the OS signal.
const DefaultPollInterval = 10 * time.Second

// Signal reports the OS-level view of connectivity.
type Signal func() bool

// InterfaceSignal reports true when any non-loopback network interface is up.
func InterfaceSignal() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		return true
	}
	return false
}

// Poller periodically feeds a Signal into a Watcher.
type Poller struct {
	watcher  *Watcher
	signal   Signal
	logger   *slog.Logger
	interval time.Duration
}

// NewPoller creates a poller. A nil signal selects InterfaceSignal and a
// non-positive interval selects DefaultPollInterval.
func NewPoller(watcher *Watcher, signal Signal, interval time.Duration, logger *slog.Logger) *Poller {
	if signal == nil {
		signal = InterfaceSignal
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		watcher:  watcher,
		signal:   signal,
		logger:   logger,
		interval: interval,
	}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug("Connectivity poller started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Connectivity poller stopped")
			return
		case <-ticker.C:
			p.watcher.Report(ctx, p.signal())
		}
	}
}
