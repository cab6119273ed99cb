// Package location resolves the user's current position for
// location-conditioned stress dynamics. Resolution order: configured
// override, then a cached IP-geolocation lookup. Every failure degrades to
// "position unknown"; nothing here is load-bearing.
package location

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	lookupURL     = "https://ipinfo.io/json"
	lookupTimeout = 3 * time.Second
	cacheTTL      = 5 * time.Minute
)

// Static always reports a fixed position. Used for config overrides and
// tests.
type Static struct {
	Lat, Lon float64
}

func (s Static) Current() (float64, float64, bool) {
	return s.Lat, s.Lon, true
}

// None never knows where it is.
type None struct{}

func (None) Current() (float64, float64, bool) {
	return 0, 0, false
}

// IPInfo looks the position up from ipinfo.io and caches the answer.
type IPInfo struct {
	mu        sync.Mutex
	client    *http.Client
	log       *zap.Logger
	now       func() time.Time
	fetchURL  string
	lat, lon  float64
	ok        bool
	fetchedAt time.Time
}

func NewIPInfo(log *zap.Logger) *IPInfo {
	if log == nil {
		log = zap.NewNop()
	}
	return &IPInfo{
		client:   &http.Client{Timeout: lookupTimeout},
		log:      log,
		now:      time.Now,
		fetchURL: lookupURL,
	}
}

func (p *IPInfo) Current() (float64, float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.fetchedAt.IsZero() && p.now().Sub(p.fetchedAt) < cacheTTL {
		return p.lat, p.lon, p.ok
	}

	lat, lon, err := p.fetch()
	p.fetchedAt = p.now()
	if err != nil {
		p.log.Warn("location lookup failed", zap.Error(err))
		p.ok = false
		return 0, 0, false
	}
	p.lat, p.lon, p.ok = lat, lon, true
	return lat, lon, true
}

func (p *IPInfo) fetch() (float64, float64, error) {
	resp, err := p.client.Get(p.fetchURL)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("ipinfo returned %s", resp.Status)
	}

	var body struct {
		Loc string `json:"loc"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, err
	}
	return ParseLatLon(body.Loc)
}

// ParseLatLon parses a "lat,lon" pair as ipinfo reports it.
func ParseLatLon(s string) (float64, float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed lat,lon pair %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", s, err)
	}
	return lat, lon, nil
}
