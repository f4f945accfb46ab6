package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsUnwrapsAppError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	wrapped := fmt.Errorf("proxy: %w", NewConnectivity(cause))

	appErr := As(wrapped)
	assert.Equal(t, TypeConnectivity, appErr.Type)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.True(t, errors.Is(appErr, cause))
}

func TestAsFallsBackToInternal(t *testing.T) {
	appErr := As(errors.New("boom"))
	assert.Equal(t, TypeInternal, appErr.Type)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Msg)
}

func TestNewUpstreamKeepsStatus(t *testing.T) {
	e := NewUpstream(http.StatusUnauthorized, `{"detail":"no token"}`)
	assert.Equal(t, http.StatusUnauthorized, e.Code)
	assert.Equal(t, TypeUpstream, e.Type)
	assert.Equal(t, `backend responded with 401: {"detail":"no token"}`, e.Msg)

	assert.Equal(t, "backend responded with 500", NewUpstream(500, "").Msg)
}
