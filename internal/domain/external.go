package domain

import "context"

// GeoPoint is a resolved coordinate pair.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Geocoder resolves a free-text address. ok=false means no confident match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (p GeoPoint, ok bool, err error)
}

// ImageLookup finds a preview image for an event link. ok=false means none.
type ImageLookup interface {
	Lookup(ctx context.Context, pageURL string) (imageURL string, ok bool, err error)
}
