// Package geolocation resolves the device position for check-in and check-out.
package geolocation

import (
	"context"
	"fmt"
	"time"
)

// Options mirror the knobs of a platform location request.
type Options struct {
	EnableHighAccuracy bool
	// Timeout bounds a single request.
	Timeout time.Duration
	// MaximumAge is how old a cached fix may be and still be returned.
	MaximumAge time.Duration
}

// DefaultOptions are used by Store for every request.
var DefaultOptions = Options{
	EnableHighAccuracy: true,
	Timeout:            10 * time.Second,
	MaximumAge:         60 * time.Second,
}

// Position is one immutable location fix.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Provider is the platform location source.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, opts Options) (Position, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}

// ErrorCode classifies provider failures.
type ErrorCode int

const (
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "PERMISSION_DENIED"
	case PositionUnavailable:
		return "POSITION_UNAVAILABLE"
	case Timeout:
		return "TIMEOUT"
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// PositionError is what providers return when a request fails.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Message
}
