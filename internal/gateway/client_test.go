package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/transform"
)

func newClient(base string, opts Options) *Client {
	return New(endpoint.NewResolver(endpoint.NewTable(base, nil)), transform.NewRegistry(), opts)
}

func TestDoTransformsCollection(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":1,"fill_level":75,"battery_level":85,"status":"active"}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/api/", Options{Token: func(context.Context) string { return "abc" }})
	resp, err := c.Do(context.Background(), Call{Path: "/admin/smart-bins?zone=north"})
	require.NoError(t, err)

	assert.Equal(t, "/api/smart-bins/?zone=north", gotPath)
	assert.Equal(t, "Token abc", gotAuth)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, transform.SmartBins, resp.Resource)
	assert.Equal(t, endpoint.Mapped, resp.Resolution.Kind)

	bins := resp.Data.([]any)
	require.Len(t, bins, 1)
	assert.Equal(t, float64(75), bins[0].(transform.SmartBin).FillLevel)
}

func TestDoRewritesFamilyDetail(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":42,"first_name":"Grace","last_name":"Wanjiku"}`))
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL+"/api/", Options{}).Do(context.Background(), Call{Path: "users/42"})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/users/42/", gotPath)
	assert.Equal(t, endpoint.Rewritten, resp.Resolution.Kind)
	assert.Equal(t, "Grace Wanjiku", resp.Data.(transform.User).FullName)
}

func TestDoForwardsBodyAndExplicitToken(t *testing.T) {
	var gotMethod, gotBody, gotType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/api/", Options{Token: func(context.Context) string { return "session" }})
	resp, err := c.Do(context.Background(), Call{
		Method: http.MethodPatch,
		Path:   "admin/jobs/7",
		Body:   strings.NewReader(`{"status":"completed"}`),
		Token:  "explicit",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Nil(t, resp.Data)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, `{"status":"completed"}`, gotBody)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Token explicit", gotAuth)
}

func TestDoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL+"/api/", Options{}).Do(context.Background(), Call{Path: "admin/payments"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))

	appErr := errs.As(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	assert.Contains(t, appErr.Msg, "credentials were not provided")
}

func TestDoConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL + "/api/"
	srv.Close()

	_, err := newClient(base, Options{}).Do(context.Background(), Call{Path: "admin/users"})
	require.Error(t, err)
	assert.False(t, IsUpstream(err))
	assert.Equal(t, errs.TypeConnectivity, errs.As(err).Type)
	assert.Equal(t, http.StatusBadGateway, errs.As(err).Code)
}

func TestDoWithoutBaseURL(t *testing.T) {
	_, err := newClient("", Options{}).Do(context.Background(), Call{Path: "admin/users"})
	require.Error(t, err)
	assert.Equal(t, errs.TypeConfiguration, errs.As(err).Type)
}

func TestDoNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,amount\n1,1500\n"))
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL+"/api/", Options{}).Do(context.Background(), Call{Path: "admin/payments/export"})
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "id,amount\n1,1500\n", string(resp.Raw))
	assert.Equal(t, "text/csv", resp.ContentType)
}

func TestIsUpstream(t *testing.T) {
	assert.False(t, IsUpstream(errors.New("plain")))
	assert.True(t, IsUpstream(errs.NewUpstream(404, "")))
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := excerpt([]byte(long))
	assert.Len(t, got, excerptLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
