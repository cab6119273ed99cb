package location

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLon(t *testing.T) {
	lat, lon, err := ParseLatLon("40.7128,-74.0060")
	require.NoError(t, err)
	assert.InDelta(t, 40.7128, lat, 1e-9)
	assert.InDelta(t, -74.0060, lon, 1e-9)

	_, _, err = ParseLatLon("not-a-pair")
	assert.Error(t, err)
	_, _, err = ParseLatLon("40.7,x")
	assert.Error(t, err)
}

func TestStaticAndNone(t *testing.T) {
	lat, lon, ok := Static{Lat: 1.5, Lon: -2.5}.Current()
	assert.True(t, ok)
	assert.Equal(t, 1.5, lat)
	assert.Equal(t, -2.5, lon)

	_, _, ok = None{}.Current()
	assert.False(t, ok)
}

func lookupServer(t *testing.T, hits *int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIPInfoCachesLookups(t *testing.T) {
	hits := 0
	srv := lookupServer(t, &hits, `{"loc":"40.7,-74.0"}`)

	base := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	now := base
	p := NewIPInfo(nil)
	p.client = srv.Client()
	p.now = func() time.Time { return now }
	p.fetchURL = srv.URL

	lat, lon, ok := p.Current()
	require.True(t, ok)
	assert.InDelta(t, 40.7, lat, 1e-9)
	assert.InDelta(t, -74.0, lon, 1e-9)
	assert.Equal(t, 1, hits)

	// Second call inside the TTL is served from cache.
	now = base.Add(time.Minute)
	_, _, ok = p.Current()
	assert.True(t, ok)
	assert.Equal(t, 1, hits)

	// After the TTL the provider refetches.
	now = base.Add(10 * time.Minute)
	_, _, ok = p.Current()
	assert.True(t, ok)
	assert.Equal(t, 2, hits)
}

func TestIPInfoDegradesOnFailure(t *testing.T) {
	hits := 0
	srv := lookupServer(t, &hits, `garbage`)

	p := NewIPInfo(nil)
	p.client = srv.Client()
	p.fetchURL = srv.URL

	_, _, ok := p.Current()
	assert.False(t, ok)
}
