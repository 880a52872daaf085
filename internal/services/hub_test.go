package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/models"
)

func TestLocationHubDeliversToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewLocationHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(fix(`10.5`, `20.25`, `"now"`))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got models.LocationFix
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, `10.5`, string(got.Latitude))
	assert.Equal(t, `"now"`, string(got.Timestamp))
}

func TestLocationHubBroadcastDoesNotBlock(t *testing.T) {
	hub := NewLocationHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast(fix(`1`, `2`, `3`))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}
