package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/platform/obs"
)

// OSRMOptions configures an OSRMClient.
type OSRMOptions struct {
	BaseURL     string
	Profile     string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
	Logger     logger.Logger
}

// OSRMClient implements ports.RoutingClient against an OSRM HTTP server.
//
// It performs single-pair route queries and one-to-many table queries.
// Every failure is returned to the caller as an error; degrading to an
// estimate is the caller's decision. The client is safe for concurrent use.
type OSRMClient struct {
	session     *http.Client
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
	userAgent   string
	log         logger.Logger
}

func NewOSRMClient(opts OSRMOptions) (*OSRMClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("osrm base url is empty")
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("osrm base url %q is not an absolute url", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	session := opts.HTTPClient
	if session == nil {
		session = &http.Client{Timeout: timeout}
	}

	profile := opts.Profile
	if profile == "" {
		profile = "driving"
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}

	return &OSRMClient{
		session:     session,
		baseURL:     base,
		profile:     profile,
		maxAttempts: attempts,
		backoff:     backoff,
		userAgent:   "charging-route-service/1.0",
		log:         log,
	}, nil
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance *float64       `json:"distance"`
		Duration *float64       `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// Route returns the road distance (km), duration (minutes) and geometry
// between two points using the OSRM route service.
func (o *OSRMClient) Route(ctx context.Context, from, to domain.Point) (_ domain.DistanceResult, err error) {
	defer obs.Time(ctx, o.log, "osrm.Route")(&err)
	defer func() { obs.OracleRequest("route", outcome(err)) }()

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, encodeCoords(from, to))

	var rr routeResponse
	if err := o.getJSON(ctx, endpoint, map[string]string{
		"overview":   "full",
		"geometries": "geojson",
		"steps":      "true",
	}, &rr); err != nil {
		return domain.DistanceResult{}, fmt.Errorf("osrm route: %w", err)
	}

	if rr.Code != "Ok" {
		return domain.DistanceResult{}, fmt.Errorf("osrm route: %w", &responseCodeError{Code: rr.Code, Message: rr.Message})
	}
	if len(rr.Routes) == 0 {
		return domain.DistanceResult{}, errors.New("osrm route: response contains no routes")
	}

	r := rr.Routes[0]
	if r.Distance == nil || r.Duration == nil {
		return domain.DistanceResult{}, errors.New("osrm route: route is missing distance or duration")
	}
	if invalidMetric(*r.Distance) || invalidMetric(*r.Duration) {
		return domain.DistanceResult{}, fmt.Errorf(
			"osrm route: invalid metrics distance=%v duration=%v", *r.Distance, *r.Duration,
		)
	}

	var geometry json.RawMessage
	if len(r.Geometry) > 0 && string(r.Geometry) != "null" {
		geometry = r.Geometry
	}

	// OSRM reports meters and seconds.
	return domain.DistanceResult{
		DistanceKm:  *r.Distance / 1000,
		DurationMin: *r.Duration / 60,
		Geometry:    geometry,
		Source:      domain.SourceOracle,
	}, nil
}

// Table returns road distances (km) from origin to each destination using
// one OSRM table request. Unreachable destinations are +Inf.
func (o *OSRMClient) Table(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (_ []float64, err error) {
	if len(destinations) == 0 {
		return []float64{}, nil
	}

	defer obs.Time(ctx, o.log, "osrm.Table")(&err)
	defer func() { obs.OracleRequest("table", outcome(err)) }()

	all := make([]domain.Point, 0, 1+len(destinations))
	all = append(all, origin)
	all = append(all, destinations...)

	destIdx := make([]string, 0, len(destinations))
	for i := 1; i <= len(destinations); i++ {
		destIdx = append(destIdx, strconv.Itoa(i))
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s", o.baseURL, o.profile, encodeCoords(all...))

	var tr tableResponse
	if err := o.getJSON(ctx, endpoint, map[string]string{
		"sources":      "0",
		"destinations": strings.Join(destIdx, ";"),
		"annotations":  "distance",
	}, &tr); err != nil {
		return nil, fmt.Errorf("osrm table: %w", err)
	}

	if tr.Code != "Ok" {
		return nil, fmt.Errorf("osrm table: %w", &responseCodeError{Code: tr.Code, Message: tr.Message})
	}
	if len(tr.Distances) != 1 {
		return nil, fmt.Errorf("osrm table: expected 1 source row; got %d", len(tr.Distances))
	}

	row := tr.Distances[0]
	if len(row) != len(destinations) {
		return nil, fmt.Errorf(
			"osrm table: row length does not match destinations: distances=%d destinations=%d",
			len(row), len(destinations),
		)
	}

	out := make([]float64, len(destinations))
	for i, meters := range row {
		if meters == nil {
			out[i] = math.Inf(1)
			continue
		}
		if invalidMetric(*meters) {
			return nil, fmt.Errorf("osrm table: invalid distance %v for destination %d", *meters, i)
		}
		out[i] = *meters / 1000
	}

	return out, nil
}

// encodeCoords renders points as "lon,lat;lon,lat" without rounding.
func encodeCoords(pts ...domain.Point) string {
	parts := make([]string, 0, len(pts))
	for _, p := range pts {
		parts = append(parts,
			strconv.FormatFloat(p.Lon, 'f', -1, 64)+","+strconv.FormatFloat(p.Lat, 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}

func invalidMetric(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
