// Package geo resolves a form's "use my location" request into a coordinate pair.
package geo

import (
	"context"
	"errors"
	"net"
)

// Lookup failures surfaced to the form as a notice.
var (
	ErrUnsupported = errors.New("location lookup is not supported on this device")
	ErrDenied      = errors.New("location permission was denied")
	ErrUnavailable = errors.New("location could not be determined")
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c is inside the WGS84 range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Request describes what the caller knows about the device asking for its position.
type Request struct {
	IP net.IP // client address, may be nil

	// Device carries a fix the client already obtained on its own.
	Device *Coordinates
	// DeviceError is "denied" or "unsupported" when the client could not obtain a fix.
	DeviceError string
}

// Locator resolves a Request into Coordinates.
type Locator interface {
	Locate(ctx context.Context, req Request) (Coordinates, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context, req Request) (Coordinates, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context, req Request) (Coordinates, error) {
	return f(ctx, req)
}

// DeviceFirst prefers a client-supplied fix and falls back to next only when the client sent none.
// A client-reported denial or lack of support is returned as is and never retried.
func DeviceFirst(next Locator) Locator {
	return LocatorFunc(func(ctx context.Context, req Request) (Coordinates, error) {
		switch req.DeviceError {
		case "":
		case "denied":
			return Coordinates{}, ErrDenied
		case "unsupported":
			return Coordinates{}, ErrUnsupported
		default:
			return Coordinates{}, ErrUnavailable
		}
		if req.Device != nil {
			if !req.Device.Valid() {
				return Coordinates{}, ErrUnavailable
			}
			return *req.Device, nil
		}
		if next == nil {
			return Coordinates{}, ErrUnsupported
		}
		return next.Locate(ctx, req)
	})
}

// Unsupported is the Locator used when no lookup backend is configured.
var Unsupported Locator = LocatorFunc(func(context.Context, Request) (Coordinates, error) {
	return Coordinates{}, ErrUnsupported
})
