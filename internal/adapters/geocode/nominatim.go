package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"sheeets/internal/adapters/httpx"
	"sheeets/internal/domain"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const maxBody = 1 << 20

// Nominatim resolves addresses with the OpenStreetMap Nominatim search API.
type Nominatim struct {
	client   *retryablehttp.Client
	baseURL  string
	areaHint string
}

// NewNominatim builds a geocoder. areaHint (e.g. "Denver, CO") is appended to
// addresses that don't already mention it, since sheet addresses are often
// just a street.
func NewNominatim(client *retryablehttp.Client, baseURL, areaHint string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Nominatim{client: client, baseURL: strings.TrimRight(baseURL, "/"), areaHint: areaHint}
}

var _ domain.Geocoder = (*Nominatim)(nil)

// Geocode returns the best match for address. No result is ok=false.
func (n *Nominatim) Geocode(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
	q := strings.TrimSpace(address)
	if q == "" {
		return domain.GeoPoint{}, false, nil
	}
	if n.areaHint != "" && !strings.Contains(strings.ToLower(q), strings.ToLower(n.areaHint)) {
		q += ", " + n.areaHint
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", httpx.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, false, fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("failed to read geocoder response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return domain.GeoPoint{}, false, fmt.Errorf("geocoder returned invalid json")
	}
	lat, lon := gjson.GetBytes(body, "0.lat"), gjson.GetBytes(body, "0.lon")
	if !lat.Exists() || !lon.Exists() {
		return domain.GeoPoint{}, false, nil
	}
	return domain.GeoPoint{Lat: lat.Float(), Lng: lon.Float()}, true, nil
}
