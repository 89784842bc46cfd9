package tdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourorg/parking-api/internal/metrics"
)

// Client talks to the TDX open-data API. RetryMax is zero: failures
// propagate to the caller synchronously, there is no retry anywhere on the
// search path.
type Client struct {
	id      string
	secret  string
	http    *retryablehttp.Client
	limiter *rate.Limiter

	// Overridable for tests.
	BaseURL string
	AuthURL string
}

func NewClient(clientID, clientSecret string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{
		id:      clientID,
		secret:  clientSecret,
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(20), 40), // protect upstream quota
		BaseURL: "https://tdx.transportdata.tw/api/basic",
		AuthURL: "https://tdx.transportdata.tw/auth/realms/TDXConnect/protocol/openid-connect/token",
	}
}

// ExchangeToken performs the client-credentials exchange and returns the raw
// JSON response body.
func (c *Client) ExchangeToken(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("token").Inc()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.id)
	form.Set("client_secret", c.secret)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("tdx token error %d: %v", resp.StatusCode, body)
	}
	return readAllLimit(resp.Body, 1<<20)
}

// CarParks fetches the static car-park list for a city.
func (c *Client) CarParks(ctx context.Context, token, city string) ([]byte, error) {
	metrics.UpstreamRequests.WithLabelValues("carparks").Inc()
	u := fmt.Sprintf("%s/v1/Parking/OffStreet/CarPark/City/%s?%%24format=JSON", c.BaseURL, city)
	return c.get(ctx, token, u)
}

// Availability fetches the live space-availability feed for a city.
func (c *Client) Availability(ctx context.Context, token, city string) ([]byte, error) {
	metrics.UpstreamRequests.WithLabelValues("availability").Inc()
	u := fmt.Sprintf("%s/v1/Parking/OffStreet/ParkingAvailability/City/%s?%%24format=JSON", c.BaseURL, city)
	return c.get(ctx, token, u)
}

func (c *Client) get(ctx context.Context, token, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("tdx error %d: %v", resp.StatusCode, body)
	}
	return readAllLimit(resp.Body, 8<<20) // 8MB guard
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
