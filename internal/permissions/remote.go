package permissions

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// CheckPath is the authorization service endpoint.
const CheckPath = "/v1/permissions/check"

// CheckRequest is the body sent to the authorization service.
type CheckRequest struct {
	Operation string `json:"operation"`
	User      string `json:"user"`
}

// CheckResponse is the authorization service's answer.
type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// RemoteOptions tunes the HTTP client.
type RemoteOptions struct {
	Timeout    time.Duration
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRemoteOptions returns conservative client settings.
func DefaultRemoteOptions() RemoteOptions {
	return RemoteOptions{
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		MinWait:    100 * time.Millisecond,
		MaxWait:    time.Second,
	}
}

// RemoteChecker asks an HTTP authorization service.
type RemoteChecker struct {
	client *resty.Client
}

// NewRemoteChecker creates a checker for the service at baseURL.
func NewRemoteChecker(baseURL string, opts RemoteOptions) *RemoteChecker {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.MaxRetries
	retryClient.RetryWaitMin = opts.MinWait
	retryClient.RetryWaitMax = opts.MaxWait
	retryClient.Logger = nil

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = opts.Timeout

	client := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "calculator-permissions/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &RemoteChecker{client: client}
}

// Allowed posts the request and decodes the decision. 403 is a denial, any
// other non-2xx status is an error.
func (r *RemoteChecker) Allowed(ctx context.Context, operation, user string) (bool, error) {
	var decision CheckResponse

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(CheckRequest{Operation: operation, User: user}).
		SetResult(&decision).
		Post(CheckPath)
	if err != nil {
		return false, fmt.Errorf("remote permissions check: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusForbidden:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("remote permissions check: unexpected status %d", resp.StatusCode())
	}
	return decision.Allowed, nil
}
