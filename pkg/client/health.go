package client

import "context"

// Health checks the API liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doRequest(ctx, "GET", "/healthz", nil, nil)
}

// Ready checks the API readiness endpoint.
func (c *Client) Ready(ctx context.Context) error {
	return c.doRequest(ctx, "GET", "/readyz", nil, nil)
}
