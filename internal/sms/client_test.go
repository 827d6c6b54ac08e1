package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "quotaRemaining": 40})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	err := c.Send(context.Background(), "+15550001111", "hello")
	require.NoError(t, err)

	assert.Equal(t, "+15550001111", got.Phone)
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, "test-key", got.Key)
}

func TestSendGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Out of quota"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	err := c.Send(context.Background(), "+15550001111", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Out of quota")
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "test-key")
	assert.Error(t, c.Send(context.Background(), "+15550001111", "hello"))
}

func TestBroadcastFailureDoesNotBlockOthers(t *testing.T) {
	var mu sync.Mutex
	delivered := map[string]bool{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Phone == "+15550002222" {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "invalid number"})
			return
		}
		mu.Lock()
		delivered[req.Phone] = true
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	c.Broadcast(context.Background(), []Message{
		{Phone: "+15550001111", Text: "a"},
		{Phone: "+15550002222", Text: "b"},
		{Phone: "+15550003333", Text: "c"},
	})

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, delivered["+15550001111"])
	assert.True(t, delivered["+15550003333"])
	assert.False(t, delivered["+15550002222"])
}
