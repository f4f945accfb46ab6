package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/transform"
	"github.com/MrSnakeDoc/apimap/internal/utils"
)

const (
	maxBodyBytes = 4 << 20

	probeEnvironment  = "Environment Configuration"
	probeConnectivity = "Basic Connectivity"
	probeAuth         = "Authentication Endpoint"
	probeWebSocket    = "WebSocket Connection"
	probeTransform    = "Data Transformation"
)

// EndpointProbeName returns the test name used for a core endpoint.
func EndpointProbeName(k endpoint.Key) string {
	return "Endpoint: " + string(k)
}

// TransformFixture is the smart bin record checked by the transformation
// self-test.
func TransformFixture() map[string]any {
	return map[string]any{
		"id":            float64(1),
		"fill_level":    float64(75),
		"battery_level": float64(85),
		"status":        "active",
		"created_at":    "2024-01-15T10:00:00Z",
	}
}

func (h *Harness) defaultProbes() []Probe {
	probes := []Probe{
		{Name: probeEnvironment, Check: h.checkEnvironment},
		{Name: probeConnectivity, Network: true, Check: h.checkConnectivity},
		{Name: probeAuth, Network: true, Check: h.checkAuth},
	}
	for _, key := range h.opts.Endpoints {
		probes = append(probes, Probe{
			Name:    EndpointProbeName(key),
			Network: true,
			Check:   h.endpointCheck(key),
		})
	}
	return append(probes,
		Probe{Name: probeWebSocket, Check: h.checkWebSocket},
		Probe{Name: probeTransform, Check: h.checkTransform},
	)
}

func (h *Harness) envName() string {
	if h.opts.BaseURLSource != "" {
		return h.opts.BaseURLSource
	}
	return "VITE_API_URL"
}

// baseError explains why the base URL is unusable, or returns "".
func (h *Harness) baseError() string {
	if strings.TrimSpace(h.opts.BaseURL) == "" {
		return h.envName() + " is not set"
	}
	u, err := url.Parse(h.opts.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Sprintf("%s is not an absolute http(s) URL: %q", h.envName(), h.opts.BaseURL)
	}
	return ""
}

func (h *Harness) checkEnvironment(context.Context) (Result, error) {
	if msg := h.baseError(); msg != "" {
		return fail(msg, nil), nil
	}
	return pass("API base URL configured", map[string]any{
		"baseUrl": h.opts.BaseURL,
		"source":  h.envName(),
	}), nil
}

type response struct {
	status int
	body   []byte
}

func (h *Harness) get(ctx context.Context, target string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.opts.Token != nil {
		if token := h.opts.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	resp, err := h.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

func (h *Harness) checkConnectivity(ctx context.Context) (Result, error) {
	if msg := h.baseError(); msg != "" {
		return fail("cannot reach backend: "+msg, nil), nil
	}
	target := endpoint.NormalizeBase(h.opts.BaseURL)
	details := map[string]any{"url": target}

	resp, err := h.get(ctx, target)
	if err != nil {
		return fail("backend unreachable: "+err.Error(), details), nil
	}
	details["status"] = resp.status

	switch code := resp.status; {
	case code >= 200 && code < 300:
		return pass(fmt.Sprintf("backend reachable (HTTP %d)", code), details), nil
	case code >= 500:
		return fail(fmt.Sprintf("backend error (HTTP %d)", code), details), nil
	default:
		return warn(fmt.Sprintf("backend reachable but responded HTTP %d", code), details), nil
	}
}

func (h *Harness) checkAuth(ctx context.Context) (Result, error) {
	if msg := h.baseError(); msg != "" {
		return fail("cannot reach auth endpoint: "+msg, nil), nil
	}
	target := h.opts.Resolver.URL("auth/login")
	details := map[string]any{"url": target}

	resp, err := h.get(ctx, target)
	if err != nil {
		return fail("auth endpoint unreachable: "+err.Error(), details), nil
	}
	details["status"] = resp.status

	switch code := resp.status; {
	case code == http.StatusMethodNotAllowed:
		// GET on a POST-only login route: the route exists.
		return pass("auth endpoint exists (HTTP 405 on GET)", details), nil
	case code >= 200 && code < 300:
		return pass(fmt.Sprintf("auth endpoint reachable (HTTP %d)", code), details), nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return warn(fmt.Sprintf("auth endpoint requires credentials (HTTP %d)", code), details), nil
	case code == http.StatusNotFound:
		return fail("auth endpoint not found (HTTP 404)", details), nil
	case code >= 500:
		return fail(fmt.Sprintf("auth endpoint error (HTTP %d)", code), details), nil
	default:
		return warn(fmt.Sprintf("auth endpoint responded HTTP %d", code), details), nil
	}
}

func (h *Harness) endpointCheck(key endpoint.Key) func(context.Context) (Result, error) {
	return func(ctx context.Context) (Result, error) {
		if msg := h.baseError(); msg != "" {
			return fail("cannot reach endpoint: "+msg, nil), nil
		}
		res := h.opts.Resolver.Resolve(string(key))
		details := map[string]any{
			"url":        res.URL,
			"resolution": res.Kind.String(),
		}

		resp, err := h.get(ctx, res.URL)
		if err != nil {
			return fail("request failed: "+err.Error(), details), nil
		}
		details["status"] = resp.status

		switch code := resp.status; {
		case code >= 200 && code < 300:
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return warn(fmt.Sprintf("endpoint requires authentication (HTTP %d)", code), details), nil
		case code == http.StatusNotFound:
			return fail("endpoint not found (HTTP 404)", details), nil
		case code >= 500:
			return fail(fmt.Sprintf("endpoint error (HTTP %d)", code), details), nil
		default:
			return warn(fmt.Sprintf("endpoint responded HTTP %d", code), details), nil
		}

		raw, err := transform.Decode(resp.body)
		if err != nil {
			return warn("endpoint responded but body is not JSON", details), nil
		}
		details["resource"] = transform.ResourceFromHint(string(key)).String()
		details["count"] = countRecords(h.opts.Registry.TransformHint(raw, string(key)))

		if res.IsFallback() {
			return warn(fmt.Sprintf("endpoint responded (HTTP %d) but was resolved by fallback", resp.status), details), nil
		}
		return pass(fmt.Sprintf("endpoint responded (HTTP %d)", resp.status), details), nil
	}
}

func countRecords(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case transform.Page:
		return len(t.Results)
	case nil:
		return 0
	default:
		return 1
	}
}

func (h *Harness) checkWebSocket(context.Context) (Result, error) {
	if h.opts.Realtime == nil || !h.opts.Realtime.Configured() {
		return warn("realtime channels not configured", nil), nil
	}

	status := h.opts.Realtime.Status()
	connected := 0
	channels := make(map[string]any, len(status))
	for _, name := range h.opts.Realtime.Channels() {
		channels[name] = status[name]
		if status[name] {
			connected++
		}
	}
	total := len(channels)
	if total == 0 {
		return warn("realtime channels not configured", nil), nil
	}
	details := map[string]any{"channels": channels}

	switch {
	case connected == total:
		return pass(fmt.Sprintf("all %d channels connected", total), details), nil
	case connected == 0:
		return warn("websocket not connected", details), nil
	default:
		return warn(fmt.Sprintf("%d of %d channels connected", connected, total), details), nil
	}
}

func (h *Harness) checkTransform(context.Context) (Result, error) {
	out := h.opts.Registry.TransformHint(TransformFixture(), "admin/smart-bins")
	bin, ok := out.(transform.SmartBin)
	if !ok {
		return fail(fmt.Sprintf("smart bin transform returned %T", out), nil), nil
	}
	details := map[string]any{
		"fillLevel":    bin.FillLevel,
		"batteryLevel": bin.BatteryLevel,
	}
	if bin.FillLevel != 75 || bin.BatteryLevel != 85 {
		return fail("smart bin transform produced unexpected values", details), nil
	}
	return pass("smart bin transform maps fill and battery levels", details), nil
}
