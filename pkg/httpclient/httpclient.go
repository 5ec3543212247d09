package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "khobor-feed/1.0 (+https://github.com/Adda-Baaj/khobor-feed)"

// Response is the subset of a resty response the callers rely on.
type Response interface {
	StatusCode() int
	Body() []byte
	IsSuccess() bool
}

// Client performs outbound HTTP requests.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}

type restyClient struct {
	r *resty.Client
}

// NewRestyClient returns a Client backed by resty with the given request timeout.
// Retries are disabled; a failed request is reported once.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", defaultUserAgent).
		SetRetryCount(0)
	return &restyClient{r: rc}
}

// Get issues a GET request with the given headers.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Send issues a request with an arbitrary method and raw body.
func (c *restyClient) Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Execute(method, url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
