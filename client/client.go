// Package client is a Go client for the room API. It remembers the caller's
// assigned player id and name the way the web client keeps them in local
// storage, and sends the id explicitly in mutating request bodies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"spyroom/internal/model"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	// Session state assigned by the server on create/join.
	PlayerID int
	Name     string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type joinedResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID int    `json:"playerId"`
}

// CreateRoom creates a room with the caller as host and returns its code.
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	var resp joinedResponse
	err := c.post(ctx, "/api/rooms", map[string]string{"name": name}, &resp)
	if err != nil {
		return "", err
	}
	c.PlayerID = resp.PlayerID
	c.Name = name
	return resp.RoomCode, nil
}

// JoinRoom joins an existing room as a non-host player.
func (c *Client) JoinRoom(ctx context.Context, name, roomCode string) (string, error) {
	var resp joinedResponse
	err := c.post(ctx, "/api/rooms/join", map[string]string{"name": name, "roomCode": roomCode}, &resp)
	if err != nil {
		return "", err
	}
	c.PlayerID = resp.PlayerID
	c.Name = name
	return resp.RoomCode, nil
}

// GetRoom fetches the room and its full player list.
func (c *Client) GetRoom(ctx context.Context, roomCode string) (*model.RoomView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/rooms/"+roomCode, nil)
	if err != nil {
		return nil, err
	}
	var view model.RoomView
	if err := c.do(req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// StartGame starts a round as the remembered player.
func (c *Client) StartGame(ctx context.Context, roomCode string) error {
	return c.post(ctx, "/api/rooms/"+roomCode+"/start", map[string]int{"playerId": c.PlayerID}, nil)
}

// ResetGame resets the round as the remembered player.
func (c *Client) ResetGame(ctx context.Context, roomCode string) error {
	return c.post(ctx, "/api/rooms/"+roomCode+"/reset", map[string]int{"playerId": c.PlayerID}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
