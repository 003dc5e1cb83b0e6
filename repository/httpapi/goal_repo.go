package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

// Client is a GoalRepository backed by the remote goals API. It is what a
// synchronization store running outside the service process composes with.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
}

// Config carries the remote endpoint settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// New builds an API client. The token is sent as a bearer credential on every
// request.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		timeout: timeout,
	}
}

var _ repository.GoalRepository = (*Client)(nil)

// envelope mirrors the API response wrapper with a deferred data payload.
type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (c *Client) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var goal domain.Goal
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/goals/"+id, nil, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) ListByOwner(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	path := "/api/v1/goals"
	if filter.Status != "" {
		path += "?status=" + filter.Status
	}
	var goals []domain.Goal
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	var created domain.Goal
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/goals", goal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Update(ctx context.Context, goal *domain.Goal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}
	var updated domain.Goal
	if err := c.do(ctx, fasthttp.MethodPut, "/api/v1/goals/"+goal.ID, goal, &updated); err != nil {
		return err
	}
	*goal = updated
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/api/v1/goals/"+id, nil, nil)
}

func (c *Client) AppendActivity(ctx context.Context, goalID string, activity domain.Activity) (*domain.Goal, error) {
	var goal domain.Goal
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/goals/"+goalID+"/activities", activity, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "goals api unreachable", err)
	}

	return decode(resp, out)
}

func decode(resp *fasthttp.Response, out interface{}) error {
	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "malformed goals api response", err)
		}
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound:
		return domain.ErrGoalNotFound
	case status == http.StatusBadRequest:
		message := env.Error
		if message == "" {
			message = "invalid payload"
		}
		return domain.NewError(domain.ErrCodeInvalid, message)
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status >= http.StatusBadRequest:
		return domain.NewError(domain.ErrCodeInternal, fmt.Sprintf("goals api returned status %d", status))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "malformed goals api payload", err)
	}
	return nil
}
