// Package client provides the HTTP client for LINZ primary-parcel lookups.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"donezo_backend/platform/logger"
)

const (
	linzWFSEndpointFormat = "https://data.linz.govt.nz/services;key=%s/wfs"
	primaryParcelLayer    = 51571
	defaultHTTPTimeout    = 10 * time.Second
	maxFeatureCount       = 20
)

// fallbackRadiiMeters is the stepped DWITHIN search used when the exact
// point-in-polygon query matches nothing, tight to wider.
var fallbackRadiiMeters = []int{5, 10, 20, 40}

// FlexNumber handles JSON values that can be either string or number.
// LINZ area fields are inconsistent across layers.
type FlexNumber float64

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexNumber(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "" {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexNumber(parsed)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexNumber", string(data))
}

// Parcel is a single primary-parcel feature selected for a coordinate.
type Parcel struct {
	ID           *string
	Appellation  *string
	AreaSqm      *float64
	LandDistrict *string
	Titles       *string
	Status       *string
}

type parcelProperties struct {
	ID           *json.Number `json:"id"`
	Appellation  *string      `json:"appellation"`
	CalcArea     *FlexNumber  `json:"calc_area"`
	SurveyArea   *FlexNumber  `json:"survey_area"`
	LandDistrict *string      `json:"land_district"`
	Titles       *string      `json:"titles"`
	Status       *string      `json:"status"`
}

type featureCollection struct {
	Features []struct {
		Properties parcelProperties `json:"properties"`
	} `json:"features"`
}

// Client queries the LINZ WFS for primary parcels.
type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *logger.Logger
}

// New creates a LINZ client with the given API key.
func New(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		endpoint:   fmt.Sprintf(linzWFSEndpointFormat, url.PathEscape(apiKey)),
		log:        log,
	}
}

// NewWithEndpoint creates a client against a custom endpoint. Test seam.
func NewWithEndpoint(endpoint string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		endpoint:   endpoint,
		log:        log,
	}
}

// FindParcel returns the best-matching parcel for a coordinate, or nil when
// no parcel is near the point. It tries an exact point-in-polygon query
// first, then widens with stepped DWITHIN radii.
func (c *Client) FindParcel(ctx context.Context, lat, lng float64) (*Parcel, error) {
	// LINZ expects POINT(lon lat)
	pointWKT := fmt.Sprintf("SRID=4326;POINT(%f %f)", lng, lat)

	payload, err := c.query(ctx, fmt.Sprintf("INTERSECTS(shape,%s)", pointWKT))
	if err != nil {
		return nil, err
	}

	if len(payload.Features) == 0 {
		for _, radius := range fallbackRadiiMeters {
			payload, err = c.query(ctx, fmt.Sprintf("DWITHIN(shape,%s,%d,meters)", pointWKT, radius))
			if err != nil {
				return nil, err
			}
			if len(payload.Features) > 0 {
				break
			}
		}
	}

	if len(payload.Features) == 0 {
		return nil, nil
	}

	props := make([]parcelProperties, 0, len(payload.Features))
	for _, f := range payload.Features {
		props = append(props, f.Properties)
	}

	return toParcel(pickBest(props)), nil
}

func (c *Client) query(ctx context.Context, cql string) (featureCollection, error) {
	params := url.Values{}
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "GetFeature")
	params.Set("typeNames", fmt.Sprintf("layer-%d", primaryParcelLayer))
	params.Set("outputFormat", "application/json")
	params.Set("cql_filter", cql)
	params.Set("count", strconv.Itoa(maxFeatureCount))

	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return featureCollection{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("linz parcel request failed", "error", err)
		return featureCollection{}, err
	}
	defer resp.Body.Close()

	// LINZ reports query errors as XML exception documents with a 200
	// status, so sniff the content type before decoding.
	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !strings.Contains(contentType, "json") {
		c.log.Warn("linz parcel query rejected", "status", resp.StatusCode, "content_type", contentType)
		return featureCollection{}, fmt.Errorf("linz query failed: status %d, content type %q", resp.StatusCode, contentType)
	}

	var payload featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return featureCollection{}, fmt.Errorf("decode linz response: %w", err)
	}

	return payload, nil
}

// pickBest prefers the smallest non-historic parcel by area, which is
// usually the actual lot rather than an enclosing block.
func pickBest(props []parcelProperties) parcelProperties {
	nonHistoric := make([]parcelProperties, 0, len(props))
	for _, p := range props {
		if p.Status == nil || !strings.EqualFold(*p.Status, "historic") {
			nonHistoric = append(nonHistoric, p)
		}
	}

	candidates := props
	if len(nonHistoric) > 0 {
		candidates = nonHistoric
	}

	best := candidates[0]
	bestArea, bestOK := areaOf(best)
	for _, p := range candidates[1:] {
		area, ok := areaOf(p)
		if !ok {
			continue
		}
		if !bestOK || area < bestArea {
			best = p
			bestArea = area
			bestOK = true
		}
	}

	return best
}

func areaOf(p parcelProperties) (float64, bool) {
	if p.CalcArea != nil {
		return float64(*p.CalcArea), true
	}
	if p.SurveyArea != nil {
		return float64(*p.SurveyArea), true
	}
	return 0, false
}

func toParcel(p parcelProperties) *Parcel {
	parcel := &Parcel{
		Appellation:  p.Appellation,
		LandDistrict: p.LandDistrict,
		Titles:       p.Titles,
		Status:       p.Status,
	}

	if p.ID != nil {
		id := p.ID.String()
		parcel.ID = &id
	}
	if area, ok := areaOf(p); ok {
		parcel.AreaSqm = &area
	}

	return parcel
}
