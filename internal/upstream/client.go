package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the parking data feed. All three endpoints are
// read-only and idempotent; every call carries its own timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// FetchSnapshot retrieves and normalizes the live parking payload.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.FleetSnapshot, error) {
	var raw rawSnapshot
	if err := c.getJSON(ctx, "/api/parking-data", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return normalizeSnapshot(&raw, time.Now()), nil
}

// FetchOverallHistory retrieves the fleet-wide vehicle-count datasets.
func (c *Client) FetchOverallHistory(ctx context.Context) ([]models.ChartDataset, error) {
	var raw rawHistory
	if err := c.getJSON(ctx, "/api/overall-history", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch overall history: %w", err)
	}
	if raw.Error != "" {
		return nil, fmt.Errorf("upstream: %s", raw.Error)
	}
	return normalizeDatasets(raw.Datasets), nil
}

// FetchLotHistory retrieves one lot's occupancy-over-time datasets.
func (c *Client) FetchLotHistory(ctx context.Context, lotID string) (*models.LotHistory, error) {
	var raw rawHistory
	q := url.Values{"id": {lotID}}
	if err := c.getJSON(ctx, "/api/parking-lot-history", q, &raw); err != nil {
		return nil, fmt.Errorf("fetch lot history %q: %w", lotID, err)
	}
	if raw.Error != "" {
		return nil, fmt.Errorf("upstream: %s", raw.Error)
	}
	return &models.LotHistory{
		LotName:  raw.LotName,
		Datasets: normalizeDatasets(raw.Datasets),
		YMax:     100,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
