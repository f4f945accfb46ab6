package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/logger"
	"github.com/MrSnakeDoc/apimap/internal/transform"
	"github.com/MrSnakeDoc/apimap/internal/utils"
)

const (
	maxBodyBytes   = 8 << 20
	excerptLength  = 200
	defaultTimeout = 15 * time.Second
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Call is one request against a logical path such as "admin/users/42".
type Call struct {
	Method      string
	Path        string
	Body        io.Reader
	ContentType string
	Token       string // overrides the session token when set
}

// Response is a backend answer already reshaped for the dashboard.
type Response struct {
	Resolution endpoint.Resolution `json:"resolution"`
	Status     int                 `json:"status"`
	Resource   transform.Resource  `json:"resource"`
	Data       any                 `json:"data"`

	// Raw holds the body when it was not JSON; Data is nil then.
	Raw         []byte `json:"-"`
	ContentType string `json:"-"`
}

type Options struct {
	HTTPClient Doer
	Token      func(context.Context) string
	Timeout    time.Duration
	Logger     logger.Logger
}

// Client resolves logical paths, calls the backend and transforms the JSON.
type Client struct {
	resolver *endpoint.Resolver
	registry *transform.Registry
	http     Doer
	token    func(context.Context) string
	timeout  time.Duration
	log      logger.Logger
}

// New creates a gateway client.
func New(resolver *endpoint.Resolver, registry *transform.Registry, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Client{
		resolver: resolver,
		registry: registry,
		http:     opts.HTTPClient,
		token:    opts.Token,
		timeout:  opts.Timeout,
		log:      opts.Logger.Named("gateway"),
	}
}

// Do performs the call. Errors are *errs.AppError: configuration when no
// base URL is set, connectivity on transport failure, upstream on non-2xx.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	res := c.resolver.Resolve(call.Path)
	if !strings.HasPrefix(res.URL, "http://") && !strings.HasPrefix(res.URL, "https://") {
		return nil, errs.NewConfiguration(
			fmt.Errorf("unresolvable url %q", res.URL),
			"API base URL is not configured")
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, res.URL, call.Body)
	if err != nil {
		return nil, errs.NewBadRequest(err, "invalid request")
	}
	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		ct := call.ContentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	if token := c.tokenFor(ctx, call); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			logger.String("method", method),
			logger.String("url", res.URL),
			logger.Error(err))
		return nil, errs.NewConnectivity(err)
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.NewConnectivity(fmt.Errorf("failed to read response: %w", err))
	}

	c.log.Debug("backend request",
		logger.String("method", method),
		logger.String("url", res.URL),
		logger.String("resolution", res.Kind.String()),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.NewUpstream(resp.StatusCode, excerpt(body))
	}

	out := &Response{
		Resolution:  res,
		Status:      resp.StatusCode,
		Resource:    transform.ResourceFromHint(string(res.Key)),
		ContentType: resp.Header.Get("Content-Type"),
	}
	if len(body) == 0 {
		return out, nil
	}

	raw, err := transform.Decode(body)
	if err != nil {
		out.Raw = body
		return out, nil
	}
	out.Data = c.registry.Transform(raw, out.Resource)
	return out, nil
}

func (c *Client) tokenFor(ctx context.Context, call Call) string {
	if call.Token != "" {
		return call.Token
	}
	if c.token == nil {
		return ""
	}
	return c.token(ctx)
}

// IsUpstream reports whether err is a non-2xx backend answer.
func IsUpstream(err error) bool {
	var appErr *errs.AppError
	return errors.As(err, &appErr) && appErr.Type == errs.TypeUpstream
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > excerptLength {
		s = s[:excerptLength] + "..."
	}
	return s
}
