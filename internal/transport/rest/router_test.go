package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spyroom/internal/cache"
	"spyroom/internal/model"
	"spyroom/internal/repository"
	"spyroom/internal/service"
	"spyroom/internal/transport/ws"
)

func newTestServer() *httptest.Server {
	store := repository.NewMemoryStore()
	svc := service.NewRoomService(store, store, cache.Noop())
	hub := ws.NewHub()
	svc.SetBroadcaster(hub)
	return httptest.NewServer(NewRouter(&Container{RoomService: svc, WSHub: hub}))
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func createRoom(t *testing.T, base, name string) (code string, playerID int) {
	t.Helper()
	resp, body := postJSON(t, base+"/api/rooms", map[string]string{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: status %d, body %v", resp.StatusCode, body)
	}
	return body["roomCode"].(string), int(body["playerId"].(float64))
}

func joinRoom(t *testing.T, base, name, code string) int {
	t.Helper()
	resp, body := postJSON(t, base+"/api/rooms/join", map[string]string{"name": name, "roomCode": code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join: status %d, body %v", resp.StatusCode, body)
	}
	return int(body["playerId"].(float64))
}

func TestCreateRoomEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	code, playerID := createRoom(t, srv.URL, "Alice")
	if len(code) != 4 {
		t.Errorf("expected 4-char code, got %q", code)
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			t.Errorf("code %q not uppercase letters", code)
		}
	}
	if playerID != 1 {
		t.Errorf("expected first player id 1, got %d", playerID)
	}
}

func TestCreateRoomEndpoint_Validation(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/api/rooms", map[string]string{"name": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["field"] != "name" {
		t.Errorf("expected field name, got %v", body["field"])
	}
	if body["message"] != "Name is required" {
		t.Errorf("unexpected message %v", body["message"])
	}
}

func TestJoinEndpoint_Errors(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	// Unknown room.
	resp, body := postJSON(t, srv.URL+"/api/rooms/join", map[string]string{"name": "Bob", "roomCode": "QQQQ"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if body["message"] != "Room not found" {
		t.Errorf("unexpected message %v", body["message"])
	}

	// Bad code lengths.
	for _, code := range []string{"ABC", "ABCDE"} {
		resp, body = postJSON(t, srv.URL+"/api/rooms/join", map[string]string{"name": "Bob", "roomCode": code})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("code %q: expected 400, got %d", code, resp.StatusCode)
		}
		if body["field"] != "roomCode" {
			t.Errorf("code %q: expected field roomCode, got %v", code, body["field"])
		}
	}
}

func TestGetRoomEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	code, _ := createRoom(t, srv.URL, "Alice")

	resp, err := http.Get(srv.URL + "/api/rooms/" + code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view model.RoomView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Room.Code != code || view.Room.Status != model.RoomWaiting {
		t.Errorf("unexpected room: %+v", view.Room)
	}
	if len(view.Players) != 1 || !view.Players[0].IsHost {
		t.Errorf("unexpected players: %+v", view.Players)
	}

	// Codes are case-insensitive at the boundary.
	lower, err := http.Get(srv.URL + "/api/rooms/" + strings.ToLower(code))
	if err != nil {
		t.Fatalf("get lowercase: %v", err)
	}
	lower.Body.Close()
	if lower.StatusCode != http.StatusOK {
		t.Errorf("lowercase lookup: expected 200, got %d", lower.StatusCode)
	}

	missing, err := http.Get(srv.URL + "/api/rooms/QQQQ")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", missing.StatusCode)
	}
}

func TestStartResetEndpoints(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	code, hostID := createRoom(t, srv.URL, "Alice")
	bobID := joinRoom(t, srv.URL, "Bob", code)
	joinRoom(t, srv.URL, "Carol", code)

	// Non-host cannot start.
	resp, body := postJSON(t, fmt.Sprintf("%s/api/rooms/%s/start", srv.URL, code), map[string]int{"playerId": bobID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-host, got %d", resp.StatusCode)
	}
	if body["message"] != "Only the host can start the game" {
		t.Errorf("unexpected message %v", body["message"])
	}

	// Host starts.
	resp, body = postJSON(t, fmt.Sprintf("%s/api/rooms/%s/start", srv.URL, code), map[string]int{"playerId": hostID})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("start: status %d, body %v", resp.StatusCode, body)
	}

	// Starting again is rejected by the status guard.
	resp, body = postJSON(t, fmt.Sprintf("%s/api/rooms/%s/start", srv.URL, code), map[string]int{"playerId": hostID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for double start, got %d", resp.StatusCode)
	}
	if body["message"] != "Game already started" {
		t.Errorf("unexpected message %v", body["message"])
	}

	var view model.RoomView
	getResp, err := http.Get(srv.URL + "/api/rooms/" + code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := json.NewDecoder(getResp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	getResp.Body.Close()
	if view.Room.Status != model.RoomPlaying || view.Room.Location == nil {
		t.Errorf("unexpected room after start: %+v", view.Room)
	}
	spies := 0
	for _, p := range view.Players {
		if p.IsSpy {
			spies++
		}
	}
	if spies != 1 {
		t.Errorf("expected exactly one spy, got %d", spies)
	}

	// Host resets.
	resp, body = postJSON(t, fmt.Sprintf("%s/api/rooms/%s/reset", srv.URL, code), map[string]int{"playerId": hostID})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("reset: status %d, body %v", resp.StatusCode, body)
	}

	getResp, err = http.Get(srv.URL + "/api/rooms/" + code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	view = model.RoomView{}
	if err := json.NewDecoder(getResp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	getResp.Body.Close()
	if view.Room.Status != model.RoomWaiting || view.Room.Location != nil {
		t.Errorf("unexpected room after reset: %+v", view.Room)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
