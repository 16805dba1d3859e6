// Package payments mints hosted checkout links through the YooKassa
// payments API.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sher-V/play-today-admin/internal/config"
	"github.com/Sher-V/play-today-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// YooKassaClient implements domain.PaymentProvider over the YooKassa
// REST API (POST /payments with Basic auth and an idempotence key).
type YooKassaClient struct {
	cfg        config.PaymentsConfig
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewYooKassaClient(cfg config.PaymentsConfig, logger *zerolog.Logger) *YooKassaClient {
	return &YooKassaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type paymentAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type paymentConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type createPaymentRequest struct {
	Amount       paymentAmount       `json:"amount"`
	Capture      bool                `json:"capture"`
	Confirmation paymentConfirmation `json:"confirmation"`
	Description  string              `json:"description,omitempty"`
}

type createPaymentResponse struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Confirmation paymentConfirmation `json:"confirmation"`
}

// CreatePaymentLink creates a redirect payment and returns its hosted
// confirmation URL. The amount is whole rubles.
func (c *YooKassaClient) CreatePaymentLink(ctx context.Context, req domain.PaymentLinkRequest) (string, error) {
	if req.AmountRub <= 0 {
		return "", fmt.Errorf("payment amount must be positive, got %d", req.AmountRub)
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = c.cfg.ReturnURL
	}

	body := createPaymentRequest{
		Amount: paymentAmount{
			Value:    fmt.Sprintf("%.2f", float64(req.AmountRub)),
			Currency: c.cfg.Currency,
		},
		Capture: true,
		Confirmation: paymentConfirmation{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Description: req.Description,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/payments", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(snippet)).
			Msg("payment provider rejected the request")
		return "", fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var payment createPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", fmt.Errorf("failed to decode payment response: %w", err)
	}

	if payment.Confirmation.ConfirmationURL == "" {
		return "", fmt.Errorf("payment response has no confirmation url")
	}

	c.logger.Info().Str("payment_id", payment.ID).Msg("payment link created")
	return payment.Confirmation.ConfirmationURL, nil
}
