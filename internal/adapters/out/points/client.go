// Package points calls the external points service that credits sellers and
// buyers when an item is collected.
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"lockers/internal/core/ports"

	"github.com/shopspring/decimal"
)

const awardPath = "/api/v1/points/award"

type awardRequest struct {
	UserID   string           `json:"userId"`
	OrderID  string           `json:"orderId"`
	Action   string           `json:"action"`
	Quantity int              `json:"quantity"`
	CO2Kg    *decimal.Decimal `json:"co2Kg,omitempty"`
}

type awardResponse struct {
	PointsAwarded int `json:"pointsAwarded"`
}

// HTTPClient implements ports.PointsAwarder over HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse points service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("points service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger.With("component", "points-client"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

func (c *HTTPClient) Award(ctx context.Context, award ports.PointsAward) (int, error) {
	body, err := json.Marshal(awardRequest{
		UserID:   award.UserID.String(),
		OrderID:  award.OrderID.String(),
		Action:   award.Action,
		Quantity: award.Quantity,
		CO2Kg:    award.CO2Kg,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal points award: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, awardPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// the order id doubles as idempotency key together with the action
	req.Header.Set("Idempotency-Key", award.OrderID.String()+":"+award.Action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call points service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("points request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return 0, fmt.Errorf("points service error: %s", resp.Status)
	}

	var data awardResponse
	if err = json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode points response: %w", err)
	}
	return data.PointsAwarded, nil
}

// Noop is used when no points service is configured. It credits nothing.
type Noop struct{}

func (Noop) Award(context.Context, ports.PointsAward) (int, error) {
	return 0, nil
}
