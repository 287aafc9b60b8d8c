package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"spyroom/internal/cache"
	"spyroom/internal/model"
	"spyroom/internal/repository"
	"spyroom/internal/service"
	"spyroom/internal/transport/rest"
	"spyroom/internal/transport/ws"
)

func newServer() *httptest.Server {
	store := repository.NewMemoryStore()
	svc := service.NewRoomService(store, store, cache.Noop())
	hub := ws.NewHub()
	svc.SetBroadcaster(hub)
	return httptest.NewServer(rest.NewRouter(&rest.Container{RoomService: svc, WSHub: hub}))
}

func TestClient_FullRound(t *testing.T) {
	srv := newServer()
	defer srv.Close()
	ctx := context.Background()

	alice := New(srv.URL)
	code, err := alice.CreateRoom(ctx, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if alice.PlayerID == 0 || alice.Name != "Alice" {
		t.Errorf("session state not remembered: id=%d name=%q", alice.PlayerID, alice.Name)
	}

	bob := New(srv.URL)
	if _, err := bob.JoinRoom(ctx, "Bob", code); err != nil {
		t.Fatalf("join: %v", err)
	}

	// Bob is not the host.
	err = bob.StartGame(ctx, code)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Fatalf("expected 400 APIError for non-host start, got %v", err)
	}

	if err := alice.StartGame(ctx, code); err != nil {
		t.Fatalf("start: %v", err)
	}

	view, err := bob.GetRoom(ctx, code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Room.Status != model.RoomPlaying || view.Room.Location == nil {
		t.Errorf("unexpected room: %+v", view.Room)
	}
	if len(view.Players) != 2 {
		t.Errorf("expected 2 players, got %d", len(view.Players))
	}

	if err := alice.ResetGame(ctx, code); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

func TestClient_JoinValidation(t *testing.T) {
	srv := newServer()
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.JoinRoom(context.Background(), "Bob", "ABC")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 400 || apiErr.Field != "roomCode" {
		t.Errorf("unexpected error: %+v", apiErr)
	}

	_, err = c.JoinRoom(context.Background(), "Bob", "QQQQ")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestClient_Watch(t *testing.T) {
	srv := newServer()
	defer srv.Close()

	alice := New(srv.URL)
	code, err := alice.CreateRoom(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	views := alice.Watch(ctx, code, 10*time.Millisecond)

	select {
	case view := <-views:
		if view.Room.Code != code {
			t.Errorf("watched wrong room: %+v", view.Room)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no view delivered")
	}

	cancel()
	for range views {
	}
	if _, ok := <-views; ok {
		t.Error("expected channel closed after cancel")
	}
}
