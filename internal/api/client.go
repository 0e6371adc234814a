package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"listwise/internal/config"
	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/services"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const (
	getPath    = "/api/listing/get/{id}"
	createPath = "/api/listing/create"
	updatePath = "/api/listing/update/{id}"
)

// Listings is the subset of the listing API the wizard depends on.
type Listings interface {
	Get(ctx context.Context, id string) (listing.Draft, error)
	Create(ctx context.Context, p listing.Payload) (Result, error)
	Update(ctx context.Context, id string, p listing.Payload) (Result, error)
}

// Result is a successful write: the id of the stored listing.
type Result struct {
	ID string
}

// envelope covers both the success body ({_id, ...}) and the failure body
// ({success: false, message}).
type envelope struct {
	ID      string `json:"_id"`
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

var _ Listings = (*Client)(nil)

// Client talks to the listing endpoints over HTTP.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New builds a client from the [api] config section. The token, when set, is
// sent as the auth cookie on every request.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.API.BaseURL, "/")).
		SetTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.API.UserAgent)
	if token := strings.TrimSpace(cfg.API.Token); token != "" {
		client.SetCookie(&http.Cookie{Name: cfg.API.AuthCookie, Value: token})
	}
	return &Client{
		http:   client,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// Get fetches a stored listing and hydrates it into a draft.
func (c *Client) Get(ctx context.Context, id string) (listing.Draft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return listing.Draft{}, services.Wrap(services.ErrNotFound, "api", "get listing", "listing id is empty", nil)
	}
	resp, err := c.send(ctx, "get listing", resty.MethodGet, getPath, func(r *resty.Request) {
		r.SetPathParam("id", id)
	})
	if err != nil {
		return listing.Draft{}, services.Wrap(services.ErrSubmission, "api", "get listing", "request failed", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return listing.Draft{}, services.Wrap(services.ErrNotFound, "api", "get listing", fmt.Sprintf("listing %s not found", id), nil)
	}
	if _, err := checkEnvelope(resp, "get listing"); err != nil {
		return listing.Draft{}, err
	}
	draft, err := listing.Hydrate(resp.Body())
	if err != nil {
		return listing.Draft{}, services.Wrap(services.ErrSubmission, "api", "get listing", "decode listing", err)
	}
	return draft, nil
}

// Create stores a new listing.
func (c *Client) Create(ctx context.Context, p listing.Payload) (Result, error) {
	resp, err := c.send(ctx, "create listing", resty.MethodPost, createPath, func(r *resty.Request) {
		r.SetBody(p)
	})
	if err != nil {
		return Result{}, services.Wrap(services.ErrSubmission, "api", "create listing", "request failed", err)
	}
	return checkWrite(resp, "create listing")
}

// Update replaces the stored listing id.
func (c *Client) Update(ctx context.Context, id string, p listing.Payload) (Result, error) {
	resp, err := c.send(ctx, "update listing", resty.MethodPost, updatePath, func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(p)
	})
	if err != nil {
		return Result{}, services.Wrap(services.ErrSubmission, "api", "update listing", "request failed", err)
	}
	return checkWrite(resp, "update listing")
}

// Ping reports the HTTP status of the API root. Any response, even an error
// status, proves the server is reachable.
func (c *Client) Ping(ctx context.Context) (int, error) {
	resp, err := c.send(ctx, "ping", resty.MethodGet, "/", nil)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

// send stamps the request with a correlation id, reusing one already on ctx,
// and logs the exchange.
func (c *Client) send(ctx context.Context, operation, method, path string, configure func(*resty.Request)) (*resty.Response, error) {
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, c.logger)

	req := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID)
	if configure != nil {
		configure(req)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		logging.WarnWithContext(logger, "listing api request failed", "api_request_failed",
			logging.String("operation", operation),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check api.base_url and that the server is running"),
		)
		return nil, err
	}
	logger.Debug("listing api response",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode()),
		logging.Duration("elapsed", resp.Time()),
	)
	return resp, nil
}

func checkEnvelope(resp *resty.Response, operation string) (envelope, error) {
	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		message := strings.TrimSpace(env.Message)
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("server returned %d", resp.StatusCode())
		}
		return env, services.Wrap(services.ErrSubmission, "api", operation, message, nil)
	}
	if decodeErr != nil {
		return env, services.Wrap(services.ErrSubmission, "api", operation, "response is not JSON", decodeErr)
	}
	if env.Success != nil && !*env.Success {
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = "server reported failure without a message"
		}
		return env, services.Wrap(services.ErrSubmission, "api", operation, message, nil)
	}
	return env, nil
}

func checkWrite(resp *resty.Response, operation string) (Result, error) {
	env, err := checkEnvelope(resp, operation)
	if err != nil {
		return Result{}, err
	}
	id := strings.TrimSpace(env.ID)
	if id == "" {
		return Result{}, services.Wrap(services.ErrSubmission, "api", operation, "response carried no _id", nil)
	}
	return Result{ID: id}, nil
}
