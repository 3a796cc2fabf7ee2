package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ipAccuracy is the radius reported for IP based fixes, in metres.
const ipAccuracy = 5000

// IPProvider approximates the device position from its public IP address
// using an ip-api.com compatible lookup service. Lookups go through a circuit
// breaker so a failing service is not hammered on every check-in.
type IPProvider struct {
	lookupURL string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
	now       func() time.Time

	mu   sync.Mutex
	last *Position
}

// NewIPProvider creates a provider querying lookupURL.
func NewIPProvider(lookupURL string) *IPProvider {
	settings := gobreaker.Settings{
		Name:        "IP-Geolocation",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip after three lookups in a row failed
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &IPProvider{
		lookupURL: lookupURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cb:  gobreaker.NewCircuitBreaker(settings),
		now: time.Now,
	}
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition returns the cached fix when it is younger than
// opts.MaximumAge, otherwise performs one lookup.
func (p *IPProvider) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	if cached, ok := p.cached(opts.MaximumAge); ok {
		return cached, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.lookup(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Position{}, &PositionError{Code: PositionUnavailable, Message: "location service circuit breaker is open"}
		}
		return Position{}, err
	}

	pos := result.(Position)
	p.mu.Lock()
	p.last = &pos
	p.mu.Unlock()
	return pos, nil
}

func (p *IPProvider) cached(maxAge time.Duration) (Position, bool) {
	if maxAge <= 0 {
		return Position{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil || p.now().Sub(p.last.Timestamp) > maxAge {
		return Position{}, false
	}
	return *p.last, true
}

func (p *IPProvider) lookup(ctx context.Context) (Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.lookupURL, nil)
	if err != nil {
		return Position{}, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Position{}, &PositionError{Code: Timeout, Message: err.Error()}
		}
		return Position{}, &PositionError{Code: PositionUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Position{}, &PositionError{Code: PermissionDenied, Message: fmt.Sprintf("lookup service returned %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return Position{}, &PositionError{Code: PositionUnavailable, Message: fmt.Sprintf("lookup service returned %d", resp.StatusCode)}
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: "invalid lookup response"}
	}
	if body.Status != "success" {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: body.Message}
	}

	return Position{
		Latitude:  body.Lat,
		Longitude: body.Lon,
		Accuracy:  ipAccuracy,
		Timestamp: p.now(),
	}, nil
}
