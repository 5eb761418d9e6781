package routing

import (
	"context"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

// credential is an API key that may be replaced while requests are in flight.
type credential struct {
	key atomic.Value
}

func newCredential(key string) *credential {
	c := &credential{}
	c.set(key)
	return c
}

func (c *credential) set(key string) { c.key.Store(strings.TrimSpace(key)) }

func (c *credential) get() string {
	key, _ := c.key.Load().(string)
	return key
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiClient is the HTTP plumbing shared by the provider adapters.
type apiClient struct {
	session *http.Client
	baseURL string
	// authorize decorates every outgoing request with credentials.
	authorize func(req *http.Request)
}

func (c *apiClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authorize != nil {
		c.authorize(req)
	}

	return req, nil
}

func (c *apiClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// statusAsRoutingError converts an HTTP status failure into the provider
// error carrying an HTTP_<code> failure code. Other errors pass through.
func statusAsRoutingError(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		return &ports.RoutingError{
			Status:  fmt.Sprintf("HTTP_%d", he.Code),
			Message: he.Body,
		}
	}
	return err
}

// pingRequest is the smallest useful routing call, a short drive from the
// map centre. Providers use it to verify credentials.
func pingRequest() ports.RouteRequest {
	return ports.RouteRequest{
		Origin:      domain.DefaultMapCenter,
		Destination: domain.Coordinates{Lon: 55.2744, Lat: 25.1972},
		Mode:        ports.TravelDriving,
	}
}
