package geolocation

import (
	"context"
	"time"
)

// StaticProvider always reports the same coordinates, e.g. a kiosk
// mounted at a fixed office entrance.
type StaticProvider struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	now       func() time.Time
}

func NewStaticProvider(lat, lon, accuracy float64) *StaticProvider {
	return &StaticProvider{Latitude: lat, Longitude: lon, Accuracy: accuracy, now: time.Now}
}

func (p *StaticProvider) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Accuracy:  p.Accuracy,
		Timestamp: p.now(),
	}, nil
}
