// Package client is a typed HTTP client for the ColheCash API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

const serviceName = "colhecash-api"

// APIClient calls the ColheCash API. Calls go through a resilience.Guard
// (bulkhead, circuit breaker, retry). Login stores the access token used by
// every later call.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	guard      *resilience.Guard

	mu    sync.RWMutex
	token string
}

// NewAPIClient creates a client for the API at baseURL.
func NewAPIClient(httpClient *http.Client, baseURL string, guard *resilience.Guard) *APIClient {
	return &APIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		guard:      guard,
	}
}

// SetToken replaces the access token.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *APIClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and keeps the returned token.
func (c *APIClient) Login(ctx context.Context, email, senha string) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "APIClient.Login")
	defer span.End()

	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", domain.LoginRequest{Email: email, Senha: senha}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// GetSummary fetches GET /v1/resumo for p.
func (c *APIClient) GetSummary(ctx context.Context, p domain.Period) (*domain.PeriodSummary, error) {
	ctx, span := tracer.Start(ctx, "APIClient.GetSummary")
	defer span.End()
	span.SetAttributes(attribute.String("period", p.Key()))

	var resp domain.PeriodSummary
	if err := c.do(ctx, http.MethodGet, "/v1/resumo?"+periodQuery(p).Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetYearReport fetches GET /v1/relatorios for the year of p with p selected.
func (c *APIClient) GetYearReport(ctx context.Context, p domain.Period) (*domain.YearReport, error) {
	ctx, span := tracer.Start(ctx, "APIClient.GetYearReport")
	defer span.End()
	span.SetAttributes(attribute.String("period", p.Key()))

	var resp domain.YearReport
	if err := c.do(ctx, http.MethodGet, "/v1/relatorios?"+periodQuery(p).Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func periodQuery(p domain.Period) url.Values {
	q := url.Values{}
	q.Set("mes", fmt.Sprint(p.Month))
	q.Set("ano", fmt.Sprint(p.Year))
	return q
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"campo"`
}

// do sends one request through the guard and decodes a 2xx body into out.
func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	err := c.guard.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token := c.currentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return statusErr(resp)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		return err
	}
	return &domain.ErrExternalService{Service: serviceName, Err: err}
}

// statusErr turns an error response into the matching domain error.
func statusErr(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.Error
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &domain.ErrValidation{Field: apiErr.Field, Message: msg}
	case http.StatusUnauthorized:
		return &domain.ErrUnauthorized{Message: msg}
	case http.StatusNotFound:
		return &domain.ErrNotFound{Resource: resp.Request.URL.Path}
	case http.StatusConflict:
		return &domain.ErrConflict{Message: msg}
	}
	return fmt.Errorf("%s %s returned status %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, msg)
}

func isDomainError(err error) bool {
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var notFound *domain.ErrNotFound
	var conflict *domain.ErrConflict
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	return errors.As(err, &validation) || errors.As(err, &unauthorized) ||
		errors.As(err, &notFound) || errors.As(err, &conflict) ||
		errors.As(err, &circuitOpen) || errors.As(err, &timeout)
}
