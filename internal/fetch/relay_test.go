package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayServer answers every request with status and body and counts calls.
func relayServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRelay_Wrap(t *testing.T) {
	target := "https://acme.test/contact?a=1&b=2"

	query := Relay{Name: "q", Base: "https://relay.test/raw", Style: StyleQuery}
	got, err := query.Wrap(target)
	require.NoError(t, err)
	assert.Equal(t, "https://relay.test/raw?url="+url.QueryEscape(target), got)

	queryWithParams := Relay{Name: "q2", Base: "https://relay.test/raw?charset=utf-8", Style: StyleQuery}
	got, err = queryWithParams.Wrap(target)
	require.NoError(t, err)
	assert.Equal(t, "https://relay.test/raw?charset=utf-8&url="+url.QueryEscape(target), got)

	path := Relay{Name: "p", Base: "https://relay.test/fetch/", Style: StylePath}
	got, err = path.Wrap(target)
	require.NoError(t, err)
	assert.Equal(t, "https://relay.test/fetch/"+target, got)

	_, err = Relay{Name: "bad", Base: "https://relay.test", Style: "header"}.Wrap(target)
	assert.Error(t, err)
}

func TestRelay_Validate(t *testing.T) {
	assert.NoError(t, Relay{Name: "ok", Base: "https://relay.test", Style: StylePath}.Validate())
	assert.Error(t, Relay{Base: "https://relay.test", Style: StylePath}.Validate())
	assert.Error(t, Relay{Name: "x", Base: "relay.test", Style: StylePath}.Validate())
	assert.Error(t, Relay{Name: "x", Base: "https://relay.test", Style: "other"}.Validate())
}

func TestDefaultRelays(t *testing.T) {
	relays := DefaultRelays()
	require.Len(t, relays, 3)
	assert.Equal(t, "allorigins", relays[0].Name)
	assert.Equal(t, StyleQuery, relays[0].Style)
	assert.Equal(t, "cors-anywhere", relays[1].Name)
	assert.Equal(t, "thingproxy", relays[2].Name)
	for _, r := range relays {
		assert.NoError(t, r.Validate())
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	var c1, c2, c3 atomic.Int32
	r1 := relayServer(t, http.StatusBadGateway, "down", &c1)
	r2 := relayServer(t, http.StatusOK, "<p>info@acme.com</p>", &c2)
	r3 := relayServer(t, http.StatusOK, "never", &c3)

	chain := NewChain([]Relay{
		{Name: "r1", Base: r1.URL, Style: StyleQuery},
		{Name: "r2", Base: r2.URL, Style: StylePath},
		{Name: "r3", Base: r3.URL, Style: StyleQuery},
	}, nil, false)

	result, err := chain.Fetch(context.Background(), "http://acme.test")
	require.NoError(t, err)
	assert.Equal(t, "<p>info@acme.com</p>", result.Content)
	assert.Equal(t, "r2", result.Relay)
	require.Len(t, result.Attempts, 1)
	assert.Equal(t, "r1", result.Attempts[0].Relay)

	assert.Equal(t, int32(1), c1.Load())
	assert.Equal(t, int32(1), c2.Load())
	assert.Equal(t, int32(0), c3.Load())
}

func TestChain_WrapsTargetPerStyle(t *testing.T) {
	var gotQuery, gotPath string
	queryRelay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("url")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer queryRelay.Close()
	pathRelay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("ok"))
	}))
	defer pathRelay.Close()

	chain := NewChain([]Relay{
		{Name: "query", Base: queryRelay.URL + "/raw", Style: StyleQuery},
		{Name: "path", Base: pathRelay.URL + "/fetch", Style: StylePath},
	}, nil, false)

	_, err := chain.Fetch(context.Background(), "https://acme.test/contact")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test/contact", gotQuery)
	assert.Equal(t, "/fetch/https://acme.test/contact", gotPath)
}

func TestChain_Exhausted(t *testing.T) {
	var c1, c2 atomic.Int32
	r1 := relayServer(t, http.StatusForbidden, "", &c1)
	r2 := relayServer(t, http.StatusTooManyRequests, "", &c2)

	chain := NewChain([]Relay{
		{Name: "r1", Base: r1.URL, Style: StyleQuery},
		{Name: "r2", Base: r2.URL, Style: StyleQuery},
	}, nil, false)

	result, err := chain.Fetch(context.Background(), "http://acme.test")
	assert.Nil(t, result)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, 2)
	assert.Equal(t, "r1", exhausted.Attempts[0].Relay)
	assert.Equal(t, "r2", exhausted.Attempts[1].Relay)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), c1.Load())
	assert.Equal(t, int32(1), c2.Load())
}

func TestChain_NoRelays(t *testing.T) {
	chain := NewChain([]Relay{}, nil, false)

	_, err := chain.Fetch(context.Background(), "http://acme.test")
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Empty(t, exhausted.Attempts)
}

func TestChain_InvalidTarget(t *testing.T) {
	var calls atomic.Int32
	r1 := relayServer(t, http.StatusOK, "x", &calls)
	chain := NewChain([]Relay{{Name: "r1", Base: r1.URL, Style: StyleQuery}}, nil, false)

	_, err := chain.Fetch(context.Background(), "not a url")
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, int32(0), calls.Load())
}

func TestChain_CancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var c2 atomic.Int32
	r1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer r1.Close()
	r2 := relayServer(t, http.StatusOK, "late", &c2)

	chain := NewChain([]Relay{
		{Name: "r1", Base: r1.URL, Style: StyleQuery},
		{Name: "r2", Base: r2.URL, Style: StyleQuery},
	}, nil, false)

	_, err := chain.Fetch(ctx, "http://acme.test")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), c2.Load())
}

func TestChain_RelaysReturnsCopy(t *testing.T) {
	chain := NewChain(DefaultRelays(), nil, false)

	relays := chain.Relays()
	require.Len(t, relays, 3)
	assert.Equal(t, "allorigins", relays[0].Name)

	relays[0].Name = "changed"
	assert.Equal(t, "allorigins", chain.Relays()[0].Name)
}
