package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenylist_Matches(t *testing.T) {
	d, err := NewDenylist(nil)
	require.NoError(t, err)

	tests := []struct {
		candidate string
		want      bool
	}{
		{"info@acme.com", false},
		{"webmaster@acme.com", true},
		{"WebMaster@Acme.com", true},
		{"logo@2x.png", true},
		{"someone@example.com", true},
		{"page@facebook.com", true},
		{"errors@o123.ingest.sentry.io", true},
		{"no-reply@shop.io", true},
		{"sales@acme.co.uk", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Matches(tt.candidate))
		})
	}
}

func TestDenylist_CustomPatterns(t *testing.T) {
	d, err := NewDenylist([]string{" Spam.Net ", "spam.net", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{"spam.net"}, d.Patterns())
	assert.True(t, d.Matches("x@spam.net"))
	assert.False(t, d.Matches("webmaster@acme.com"))
}

func TestDenylist_Empty(t *testing.T) {
	d, err := NewDenylist([]string{})
	require.NoError(t, err)

	assert.False(t, d.Matches("webmaster@example.com"))
	assert.Empty(t, d.Patterns())
}

func TestDenylist_NilReceiver(t *testing.T) {
	var d *Denylist
	assert.False(t, d.Matches("anything@example.com"))
	assert.Nil(t, d.Patterns())
}
