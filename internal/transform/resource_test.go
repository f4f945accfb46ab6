package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceFromHint(t *testing.T) {
	tests := []struct {
		hint     string
		expected Resource
	}{
		{hint: "admin/smart-bins", expected: SmartBins},
		{hint: "smart-bins/12/", expected: SmartBins},
		{hint: "admin/users", expected: Users},
		{hint: "users/42", expected: Users},
		{hint: "http://localhost:8000/api/auth/users/42/", expected: Users},
		{hint: "admin/analytics", expected: Analytics},
		{hint: "admin/dashboard", expected: Analytics},
		{hint: "admin/users/42/payments", expected: Payments},
		{hint: "providers/3f2c1a9e-8d4b-4c1e-9f3a-2b7d6e5c4a10", expected: Providers},
		{hint: "admin/jobs?status=pending", expected: Jobs},
		{hint: "admin/requests", expected: Requests},
		{hint: "admin/vehicles", expected: Vehicles},
		{hint: "admin/drivers", expected: Drivers},
		{hint: "admin/notifications", expected: Notifications},
		{hint: "ADMIN/SMART-BINS", expected: SmartBins},
		// "users-report" contains "users" but is not the users resource
		{hint: "admin/users-report", expected: Unknown},
		{hint: "totally/unknown/path", expected: Unknown},
		{hint: "", expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResourceFromHint(tt.hint))
		})
	}
}

func TestParseResource(t *testing.T) {
	r, ok := ParseResource(" Bins ")
	assert.True(t, ok)
	assert.Equal(t, SmartBins, r)

	_, ok = ParseResource("trucks")
	assert.False(t, ok)
}

func TestResourceMarshalText(t *testing.T) {
	data, err := json.Marshal(map[string]Resource{"r": SmartBins})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"r":"smart-bins"}`, string(data))
	assert.Equal(t, "unknown", Resource(99).String())
}
