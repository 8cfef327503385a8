package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessQuery_Validate(t *testing.T) {
	q := BusinessQuery{Name: "Acme Corp", Website: "https://acme.com"}
	assert.NoError(t, q.Validate())

	empty := BusinessQuery{}
	assert.NoError(t, empty.Validate())

	bad := BusinessQuery{Website: "not a url"}
	assert.Error(t, bad.Validate())
}

func TestBusinessQuery_DisplayName(t *testing.T) {
	q := BusinessQuery{Name: "  Acme Corp "}
	assert.Equal(t, "Acme Corp", q.DisplayName())

	empty := BusinessQuery{}
	assert.Equal(t, "Unknown Business", empty.DisplayName())
}

func TestEnrichRequest_Validate(t *testing.T) {
	req := EnrichRequest{URL: "http://acme.test", BusinessName: "Acme"}
	assert.NoError(t, req.Validate())

	noURL := EnrichRequest{BusinessName: "Acme"}
	assert.NoError(t, noURL.Validate())

	bad := EnrichRequest{URL: "acme"}
	assert.Error(t, bad.Validate())
}
