package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestToastDeliveredToConnectedClient(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	userID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, userID)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	received := make(chan Toast, 1)
	go func() {
		for {
			var toast Toast
			if err := conn.ReadJSON(&toast); err != nil {
				return
			}
			received <- toast
			return
		}
	}()

	// Registration races the dial; keep pushing until the toast lands.
	deadline := time.After(2 * time.Second)
	for {
		hub.Success(userID, "Bem-vindo!")
		select {
		case toast := <-received:
			if toast.Level != "success" || toast.Message != "Bem-vindo!" {
				t.Fatalf("toast: got %+v", toast)
			}
			return
		case <-deadline:
			t.Fatal("toast never delivered")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestServeReturnsAfterHubStops(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	handlerDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, uuid.New())
		close(handlerDone)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// With the registry goroutine gone, Serve must bail out instead of
	// blocking on the register send forever.
	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve blocked after hub stopped")
	}
}
