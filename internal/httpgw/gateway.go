// Package httpgw implements types.Gateway over a REST API using resty.
//
// Routes follow the json-server convention:
//
//	GET    {base}/{collection}
//	GET    {base}/{collection}/{id}
//	POST   {base}/{collection}
//	PUT    {base}/{collection}/{id}
//	DELETE {base}/{collection}/{id}
package httpgw

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// Gateway talks to a REST API. It is safe for concurrent use.
type Gateway struct {
	client *resty.Client
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.client.SetTimeout(d)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(g *Gateway) {
		g.client.SetHeader(key, value)
	}
}

// New creates a Gateway for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Gateway {
	client := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/"))
	setDefaults(client)
	g := &Gateway{client: client}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromConfig creates a Gateway from the api_url and timeout of cfg.
func FromConfig(cfg types.Config) *Gateway {
	return New(cfg.APIURL, WithTimeout(cfg.Timeout))
}

func setDefaults(c *resty.Client) {
	c.SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
}

// errorBody is the JSON an API returns alongside a non-2xx status. Both the
// echo {"message": ...} and the {"error": ...} shapes are understood.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// List returns every entity of the collection.
func (g *Gateway) List(ctx context.Context, collection string) ([]types.Entity, error) {
	var out []types.Entity
	resp, err := g.request(ctx, collection).
		SetResult(&out).
		Get("/{collection}")
	if err := check("list", collection, resp, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Entity{}
	}
	return out, nil
}

// Get returns the entity with the given ID.
func (g *Gateway) Get(ctx context.Context, collection, id string) (types.Entity, error) {
	var out types.Entity
	resp, err := g.request(ctx, collection).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/{collection}/{id}")
	if err := check("get", collection, resp, err); err != nil {
		return types.Entity{}, err
	}
	return out, nil
}

// Create posts draft and returns the server-confirmed entity.
func (g *Gateway) Create(ctx context.Context, collection string, draft types.Entity) (types.Entity, error) {
	var out types.Entity
	resp, err := g.request(ctx, collection).
		SetBody(draft).
		SetResult(&out).
		Post("/{collection}")
	if err := check("create", collection, resp, err); err != nil {
		return types.Entity{}, err
	}
	return out, nil
}

// Update puts e and returns the server-confirmed entity.
func (g *Gateway) Update(ctx context.Context, collection string, e types.Entity) (types.Entity, error) {
	var out types.Entity
	resp, err := g.request(ctx, collection).
		SetPathParam("id", e.ID).
		SetBody(e).
		SetResult(&out).
		Put("/{collection}/{id}")
	if err := check("update", collection, resp, err); err != nil {
		return types.Entity{}, err
	}
	return out, nil
}

// Delete removes the entity with the given ID.
func (g *Gateway) Delete(ctx context.Context, collection, id string) error {
	resp, err := g.request(ctx, collection).
		SetPathParam("id", id).
		Delete("/{collection}/{id}")
	return check("delete", collection, resp, err)
}

func (g *Gateway) request(ctx context.Context, collection string) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection)
}

// check turns transport failures and non-2xx responses into NetworkErrors.
func check(op, collection string, resp *resty.Response, err error) error {
	if err != nil {
		return &types.NetworkError{Op: op, Collection: collection, Err: err}
	}
	if resp.IsSuccess() {
		return nil
	}
	return &types.NetworkError{
		Op:         op,
		Collection: collection,
		StatusCode: resp.StatusCode(),
		Message:    errorMessage(resp),
	}
}

func errorMessage(resp *resty.Response) string {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(resp.String()); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}
