package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

const (
	defaultAPIBaseURL    = "https://api.mercadopago.com"
	createPreferencePath = "/checkout/preferences"
	getPaymentPath       = "/v1/payments/%s"
)

// MercadoPagoAdapter implements market.PaymentGateway against the
// Mercado Pago REST API. Disbursements route each connected seller's
// share to their own collector account, minus the marketplace fee.
type MercadoPagoAdapter struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewMercadoPagoAdapter creates a new Mercado Pago adapter
func NewMercadoPagoAdapter(cfg *config.PaymentConfig) (*MercadoPagoAdapter, error) {
	if cfg.AccessToken == "" {
		return nil, market.ErrGatewayNotConfigured
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &MercadoPagoAdapter{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreatePreference creates a hosted checkout session
func (a *MercadoPagoAdapter) CreatePreference(ctx context.Context, req *market.CreatePreferenceRequest) (*market.Preference, error) {
	body := a.buildPreferenceBody(req)
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, createPreferencePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp preferenceResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("mercadopago: failed to parse response: %w", err)
	}

	return &market.Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

// GetPayment fetches a payment by its gateway ID
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*market.PaymentInfo, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(getPaymentPath, paymentID), nil)
	if err != nil {
		return nil, err
	}

	var resp paymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("mercadopago: failed to parse response: %w", err)
	}

	return &market.PaymentInfo{
		ID:                strconv.FormatInt(resp.ID, 10),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		PaymentType:       resp.PaymentTypeID,
		ExternalReference: resp.ExternalReference,
		TransactionAmount: decimal.NewFromFloat(resp.TransactionAmount),
	}, nil
}

func (a *MercadoPagoAdapter) buildPreferenceBody(req *market.CreatePreferenceRequest) createPreferenceBody {
	items := make([]preferenceItemBody, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, preferenceItemBody{
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			CurrencyID: item.Currency,
		})
	}

	disbursements := make([]disbursementBody, 0, len(req.Splits))
	for _, split := range req.Splits {
		disbursements = append(disbursements, disbursementBody{
			Amount:            split.Amount.InexactFloat64(),
			ExternalReference: split.SellerID.String(),
			CollectorID:       split.CollectorID,
			ApplicationFee:    split.Fee.InexactFloat64(),
		})
	}

	body := createPreferenceBody{
		ExternalReference: req.ExternalReference,
		Items:             items,
		NotificationURL:   req.NotificationURL,
		Disbursements:     disbursements,
	}

	if req.SuccessURL != "" || req.FailureURL != "" || req.PendingURL != "" {
		body.BackURLs = &backURLsBody{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.PendingURL,
		}
		if req.SuccessURL != "" {
			body.AutoReturn = "approved"
		}
	}

	return body
}

func (a *MercadoPagoAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.accessToken)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", market.ErrGatewayRequest, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", market.ErrGatewayRequest, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s (status %d)", market.ErrGatewayRequest, apiErr.Message, httpResp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", market.ErrGatewayRequest, httpResp.StatusCode)
	}

	return respBody, nil
}

// Ensure MercadoPagoAdapter implements market.PaymentGateway
var _ market.PaymentGateway = (*MercadoPagoAdapter)(nil)
