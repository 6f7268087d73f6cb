package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// GeoIPLocator approximates a client's position from its address using a MaxMind City database.
type GeoIPLocator struct {
	reader *geoip2.Reader
}

// OpenGeoIP opens the City database at path. An empty path returns (nil, nil).
// PRE: path points at a GeoLite2-City or GeoIP2-City mmdb file
func OpenGeoIP(path string) (*GeoIPLocator, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &GeoIPLocator{reader: reader}, nil
}

// Locate looks up req.IP.
// POST: private, loopback and unknown addresses return ErrUnavailable
func (g *GeoIPLocator) Locate(ctx context.Context, req Request) (Coordinates, error) {
	if g == nil || g.reader == nil {
		return Coordinates{}, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	ip := req.IP
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return Coordinates{}, ErrUnavailable
	}
	record, err := g.reader.City(ip)
	if err != nil {
		slog.Warn("geoip_lookup_failed", "ip", ip.String(), "error", err)
		return Coordinates{}, ErrUnavailable
	}
	c := Coordinates{Lat: record.Location.Latitude, Lng: record.Location.Longitude}
	if c.Lat == 0 && c.Lng == 0 {
		return Coordinates{}, ErrUnavailable
	}
	return c, nil
}

// Close closes the underlying database reader.
func (g *GeoIPLocator) Close() error {
	if g == nil || g.reader == nil {
		return nil
	}
	return g.reader.Close()
}
