package geo

import (
	"context"
	"time"
)

// StaticLocator answers every request with a fixed result after an optional delay.
// It backs development setups without a GeoIP database and stands in for slow devices in tests.
type StaticLocator struct {
	Coords Coordinates
	Err    error
	Delay  time.Duration
}

// Locate waits Delay, then returns Coords or Err.
// POST: returns ctx.Err() if ctx ends first
func (s StaticLocator) Locate(ctx context.Context, _ Request) (Coordinates, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Coordinates{}, ctx.Err()
		case <-t.C:
		}
	}
	if s.Err != nil {
		return Coordinates{}, s.Err
	}
	return s.Coords, nil
}
