package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogs(t *testing.T) {
	h := &BillingHandler{}

	req := httptest.NewRequest(http.MethodGet, "/catalogs", nil)
	rec := httptest.NewRecorder()
	h.Catalogs(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CFDIUsage []struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"cfdiUsage"`
		PaymentMethods []struct {
			Code string `json:"code"`
		} `json:"paymentMethods"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.CFDIUsage)
	assert.NotEmpty(t, resp.PaymentMethods)

	codes := make(map[string]bool)
	for _, opt := range resp.CFDIUsage {
		codes[opt.Code] = true
	}
	assert.True(t, codes["G01"])
	assert.True(t, codes["G03"])
	assert.True(t, codes["S01"])
}
