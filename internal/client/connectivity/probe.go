package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 3 * time.Second

// Probe confirms that the remote system is actually reachable.
// A nil error means reachable.
type Probe interface {
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) error

// Check calls f(ctx).
func (f ProbeFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// HTTPProbe sends a HEAD request to a fixed URL. Any HTTP response counts
// as reachable; transport errors and timeouts count as offline.
type HTTPProbe struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewHTTPProbe creates a probe for url. A non-positive timeout selects
// DefaultProbeTimeout.
func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProbe{
		client:  &http.Client{},
		url:     url,
		timeout: timeout,
	}
}

// Check performs the HEAD request.
func (p *HTTPProbe) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	// Не даем прокси/кэшу ответить вместо сервера
	req.Header.Set("Cache-Control", "no-store")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s failed: %w", p.url, err)
	}
	_ = resp.Body.Close()

	return nil
}
