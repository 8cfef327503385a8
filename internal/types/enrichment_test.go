package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichmentResult_JSONOmitsEmptyFields(t *testing.T) {
	result := EnrichmentResult{
		Success:    true,
		Emails:     []string{"info@acme.com"},
		Method:     MethodWebsiteScraping,
		Provenance: ProvenanceProxyRelay,
		Proxy:      "allorigins",
	}

	jsonBytes, err := json.Marshal(result)
	require.NoError(t, err)
	s := string(jsonBytes)
	assert.Contains(t, s, `"success":true`)
	assert.Contains(t, s, `"emails":["info@acme.com"]`)
	assert.Contains(t, s, `"method":"website_scraping"`)
	assert.Contains(t, s, `"provenance":"proxy-relay"`)
	assert.Contains(t, s, `"proxy":"allorigins"`)
	assert.NotContains(t, s, "error")
	assert.NotContains(t, s, "message")
}

func TestFailed(t *testing.T) {
	result := Failed(errors.New("boom"))
	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Error)
	assert.Empty(t, result.Emails)
}

func TestNotFound(t *testing.T) {
	result := NotFound("No emails found in website content")
	assert.False(t, result.Success)
	assert.Equal(t, "No emails found in website content", result.Message)
	assert.Empty(t, result.Error)
}
