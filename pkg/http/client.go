package http

import (
	"net/http"
	"time"
)

// Client is the outbound HTTP client shared by LLM providers.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends req; the request's context bounds the call alongside the client timeout.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
