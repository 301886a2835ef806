package remote

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

	"remindr/internal/todo"
)

const collection = "todos"

// Client talks to a JSON todos collection. Each call makes exactly one
// request; nothing is retried.
type Client struct {
	base *url.URL
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the transport, e.g. for tests or a custom timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("endpoint is empty")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be http(s): %q", baseURL)
	}
	c := &Client{base: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint is the collection URL, shown in the UI header.
func (c *Client) Endpoint() string {
	return c.collectionURL()
}

func (c *Client) List(ctx context.Context) ([]todo.Task, error) {
	var tasks []todo.Task
	status, err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &tasks)
	if err != nil {
		return nil, fail(OpFetch, status, err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

// Create posts a draft; the server assigns the id.
func (c *Client) Create(ctx context.Context, d todo.Draft) (todo.Task, error) {
	if err := d.Validate(); err != nil {
		return todo.Task{}, fail(OpCreate, 0, err)
	}
	d.Completed = false
	var created todo.Task
	status, err := c.do(ctx, http.MethodPost, c.collectionURL(), d, &created)
	if err != nil {
		return todo.Task{}, fail(OpCreate, status, err)
	}
	if created.ID == "" {
		return todo.Task{}, fail(OpCreate, status, errors.New("response has no id"))
	}
	return created, nil
}

// Update sends the full record and returns the server's version of it.
func (c *Client) Update(ctx context.Context, id string, t todo.Task) (todo.Task, error) {
	if id == "" {
		return todo.Task{}, fail(OpUpdate, 0, errors.New("missing id"))
	}
	t.ID = id
	var updated todo.Task
	status, err := c.do(ctx, http.MethodPut, c.itemURL(id), t, &updated)
	if err != nil {
		return todo.Task{}, fail(OpUpdate, status, err)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fail(OpDelete, 0, errors.New("missing id"))
	}
	status, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
	if err != nil {
		return fail(OpDelete, status, err)
	}
	return nil
}

func (c *Client) collectionURL() string {
	return c.base.JoinPath(collection).String()
}

func (c *Client) itemURL(id string) string {
	return c.base.JoinPath(collection, id).String()
}

// do performs one round trip. out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, target string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(msg)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
