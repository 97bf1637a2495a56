package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sheeets/internal/domain"
)

// Geocoding defaults. Public Nominatim allows one request per second.
const (
	DefaultGeocodeInterval   = time.Second
	DefaultGeocodeMaxLookups = 100
)

type geoResult struct {
	point domain.GeoPoint
	ok    bool
}

// GeoResolver fills event coordinates through a Geocoder, memoizing results
// (misses included) per normalized address.
type GeoResolver struct {
	geocoder   domain.Geocoder
	cache      *TTLCache[string, geoResult]
	logger     *slog.Logger
	interval   time.Duration
	maxLookups int
	limiter    *rate.Limiter
}

// GeoOption configures a GeoResolver.
type GeoOption func(*GeoResolver)

// WithGeocodeInterval spaces upstream lookups at least d apart. Zero disables pacing.
func WithGeocodeInterval(d time.Duration) GeoOption { return func(g *GeoResolver) { g.interval = d } }

// WithGeocodeMaxLookups caps upstream lookups per Resolve call. Zero or less means no cap.
func WithGeocodeMaxLookups(n int) GeoOption { return func(g *GeoResolver) { g.maxLookups = n } }

// NewGeoResolver wraps geocoder with a memo of the given TTL.
func NewGeoResolver(geocoder domain.Geocoder, ttl time.Duration, logger *slog.Logger, opts ...GeoOption) *GeoResolver {
	g := &GeoResolver{
		geocoder:   geocoder,
		cache:      NewTTLCache[string, geoResult](ttl, 10000, nil),
		logger:     logger,
		interval:   DefaultGeocodeInterval,
		maxLookups: DefaultGeocodeMaxLookups,
	}
	for _, o := range opts {
		o(g)
	}
	if g.interval > 0 {
		g.limiter = rate.NewLimiter(rate.Every(g.interval), 1)
	}
	return g
}

// Resolve sets Lat/Lng on events that have an address and no coordinates.
// Lookup errors are logged and leave the event without coordinates. A
// cancelled context or the lookup cap stops further upstream calls; the
// remaining addresses are picked up by a later refresh.
func (g *GeoResolver) Resolve(ctx context.Context, events []domain.Event) {
	lookups := 0
	for i := range events {
		e := &events[i]
		if e.Lat != nil || strings.TrimSpace(e.Address) == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		key := strings.ToLower(strings.Join(strings.Fields(e.Address), " "))
		res, hit := g.cache.Get(key)
		if !hit {
			if g.maxLookups > 0 && lookups >= g.maxLookups {
				g.logger.InfoContext(ctx, "geocode lookup cap reached", "max", g.maxLookups)
				return
			}
			if g.limiter != nil {
				if err := g.limiter.Wait(ctx); err != nil {
					return
				}
			}
			lookups++
			p, ok, err := g.geocoder.Geocode(ctx, e.Address)
			if err != nil {
				g.logger.WarnContext(ctx, "geocode failed", "address", e.Address, "err", err)
				continue
			}
			res = geoResult{point: p, ok: ok}
			g.cache.Set(key, res)
		}
		if res.ok {
			lat, lng := res.point.Lat, res.point.Lng
			e.Lat, e.Lng = &lat, &lng
		}
	}
}
