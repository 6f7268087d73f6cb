package geo

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestDeviceFirst(t *testing.T) {
	fallback := StaticLocator{Coords: Coordinates{Lat: -6.2, Lng: 106.8}}
	device := Coordinates{Lat: -6.5950, Lng: 106.8166}

	tests := []struct {
		name    string
		next    Locator
		req     Request
		want    Coordinates
		wantErr error
	}{
		{"device fix wins", fallback, Request{Device: &device}, device, nil},
		{"denied is not retried", fallback, Request{DeviceError: "denied"}, Coordinates{}, ErrDenied},
		{"unsupported device", fallback, Request{DeviceError: "unsupported"}, Coordinates{}, ErrUnsupported},
		{"unknown device error", fallback, Request{DeviceError: "timeout"}, Coordinates{}, ErrUnavailable},
		{"out of range fix", fallback, Request{Device: &Coordinates{Lat: 91}}, Coordinates{}, ErrUnavailable},
		{"falls back", fallback, Request{}, fallback.Coords, nil},
		{"no backend", nil, Request{}, Coordinates{}, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeviceFirst(tt.next).Locate(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStaticLocator_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := StaticLocator{Delay: time.Second}.Locate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestUnsupported(t *testing.T) {
	if _, err := Unsupported.Locate(context.Background(), Request{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v", err)
	}
}

func TestGeoIPLocator_NilAndPrivate(t *testing.T) {
	loc, err := OpenGeoIP("")
	if err != nil || loc != nil {
		t.Fatalf("OpenGeoIP(\"\") = %v, %v", loc, err)
	}
	if _, err := loc.Locate(context.Background(), Request{IP: net.ParseIP("8.8.8.8")}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("nil locator err = %v", err)
	}
	if err := loc.Close(); err != nil {
		t.Errorf("Close on nil = %v", err)
	}
	if _, err := OpenGeoIP(t.TempDir() + "/missing.mmdb"); err == nil {
		t.Error("expected error opening a missing database")
	}
}

func TestCoordinates_Valid(t *testing.T) {
	if !(Coordinates{Lat: -90, Lng: 180}).Valid() {
		t.Error("boundary should be valid")
	}
	if (Coordinates{Lat: 0, Lng: 181}).Valid() {
		t.Error("lng 181 should be invalid")
	}
}
