package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshKr2004/google-map-automation/internal/config"
	"github.com/AnshKr2004/google-map-automation/internal/export"
	"github.com/AnshKr2004/google-map-automation/internal/server"
	"github.com/AnshKr2004/google-map-automation/internal/storage"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

const samplePage = `<html><body>
	<a href="mailto:noreply@acme.com">x</a>
	<p>Write to hello@acme-plumbing.com or jane@gmail.com</p>
	<p>user@example.com</p>
</body></html>`

func seedStore(t *testing.T, dir string, listings ...types.Listing) {
	t.Helper()
	store, err := storage.Open(dir)
	require.NoError(t, err)
	for i := range listings {
		added, err := store.AddListing(context.Background(), &listings[i])
		require.NoError(t, err)
		require.True(t, added)
	}
	require.NoError(t, store.Close())
}

func TestExtractCommand_File(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(samplePage), 0o600))

	out, err := runCommand(t, nil, "extract", "--in", path, "--name", "Acme Plumbing")
	require.NoError(t, err)

	lines := strings.Fields(out)
	assert.Equal(t, []string{"hello@acme-plumbing.com", "jane@gmail.com"}, lines)
}

func TestExtractCommand_Stdin(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, strings.NewReader("contact: info@shop.io"), "extract")
	require.NoError(t, err)
	assert.Equal(t, "info@shop.io\n", out)
}

func TestExtractCommand_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, nil, "extract", "--in", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}

func TestEnrichCommand_RequiresURL(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, nil, "enrich", "--name", "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestAnalyzeCommand_RequiresModelKey(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, nil, "analyze", "--name", "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL_API_KEY")
}

func TestAnalyzeCommand_InvalidWebsite(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, nil, "analyze", "--name", "Acme", "--website", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid business")
}

func TestListingsCommand_EmptyJSON(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, nil, "listings", "--json")
	require.NoError(t, err)

	var listings []types.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	assert.Empty(t, listings)
}

func TestListingsCommand_Clear(t *testing.T) {
	dir := isolateEnv(t)
	seedStore(t, dir, types.Listing{Name: "Acme", Address: "1 Main St", ScrapedAt: time.Now()})

	_, err := runCommand(t, nil, "listings", "--clear")
	require.NoError(t, err)

	out, err := runCommand(t, nil, "listings", "--json")
	require.NoError(t, err)
	var listings []types.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	assert.Empty(t, listings)
}

func TestExportCommand_Stdout(t *testing.T) {
	dir := isolateEnv(t)
	seedStore(t, dir,
		types.Listing{Name: "Acme", Address: "1 Main St", Email: "hello@acme.com", ScrapedAt: time.Now()},
		types.Listing{Name: "Bolt", Address: "2 Side St", AdditionalEmails: []string{"a@bolt.io", "b@bolt.io"}, ScrapedAt: time.Now()},
	)

	out, err := runCommand(t, nil, "export", "--out", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Name,Address,Phone,"))
	assert.Contains(t, lines[1], `"hello@acme.com"`)
	assert.Contains(t, lines[2], `"a@bolt.io; b@bolt.io"`)
}

func TestExportCommand_File(t *testing.T) {
	dir := isolateEnv(t)
	seedStore(t, dir, types.Listing{Name: "Acme", ScrapedAt: time.Now()})
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := runCommand(t, nil, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 listings")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	want := export.Encode([]types.Listing{{Name: "Acme"}})
	assert.Equal(t, want, string(content))
}

func TestTokenCommand(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "cli-test-secret")

	out, err := runCommand(t, nil, "token", "--client", "chrome-extension")
	require.NoError(t, err)

	cfg, err := config.NewJWTConfig("cli-test-secret", 0)
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "chrome-extension", claims.GetClient())
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, nil, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfig_FileAndVerboseFlag(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fetch_timeout": "5s", "business_keywords": ["hola"]}`), 0o600))

	configPath = path
	verbose = true
	t.Cleanup(resetFlags)

	cfg, env, err := loadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, []string{"hola"}, cfg.BusinessKeywords)
	assert.True(t, cfg.DirectFetchEnabled())
	assert.NotEmpty(t, cfg.Relays)
	assert.False(t, env.HasModelKey())
}

func TestNewComponents_VerboseLogsPipeline(t *testing.T) {
	isolateEnv(t)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	configPath = ""
	verbose = true
	t.Cleanup(resetFlags)

	cfg, env, err := loadConfig()
	require.NoError(t, err)
	c, err := newComponents(context.Background(), cfg, env)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Contains(t, buf.String(), "[FETCH] Relay chain: allorigins -> cors-anywhere -> thingproxy")
	assert.Contains(t, buf.String(), "[EXTRACT] Denylist: ")
	assert.Nil(t, c.client)
	assert.False(t, c.inferrer.Enabled())
}
