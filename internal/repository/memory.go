package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"spyroom/internal/model"
)

// MemoryStore is a mutex-guarded in-memory backend implementing both repo
// contracts. It backs tests and the STORE=memory server mode.
type MemoryStore struct {
	mu      sync.Mutex
	rooms   map[string]*model.Room
	players map[int]*model.Player
	nextID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:   make(map[string]*model.Room),
		players: make(map[int]*model.Player),
	}
}

func (s *MemoryStore) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (s *MemoryStore) CreateRoom(ctx context.Context, code string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		return nil, fmt.Errorf("room %s already exists", code)
	}
	room := &model.Room{Code: code, Status: model.RoomWaiting}
	s.rooms[code] = room
	copied := *room
	return &copied, nil
}

func (s *MemoryStore) UpdateRoom(ctx context.Context, code string, upd model.RoomUpdate) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	applyRoomUpdate(room, upd)
	copied := *room
	return &copied, nil
}

func (s *MemoryStore) UpdateRoomIfStatus(ctx context.Context, code string, expect model.RoomStatus, upd model.RoomUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Status != expect {
		return false, nil
	}
	applyRoomUpdate(room, upd)
	return true, nil
}

func applyRoomUpdate(room *model.Room, upd model.RoomUpdate) {
	if upd.Status != nil {
		room.Status = *upd.Status
	}
	if upd.Location != nil {
		room.Location = *upd.Location
	}
}

func (s *MemoryStore) GetPlayers(ctx context.Context, roomCode string) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var players []model.Player
	for _, p := range s.players {
		if p.RoomCode == roomCode {
			players = append(players, *p)
		}
	}
	// Map order is random; keep the list stable for clients.
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *MemoryStore) GetPlayer(ctx context.Context, id int) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil, nil
	}
	copied := *player
	return &copied, nil
}

func (s *MemoryStore) CreatePlayer(ctx context.Context, roomCode, name string, isHost bool) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	player := &model.Player{
		ID:       s.nextID,
		RoomCode: roomCode,
		Name:     name,
		IsHost:   isHost,
	}
	s.players[player.ID] = player
	copied := *player
	return &copied, nil
}

func (s *MemoryStore) UpdatePlayer(ctx context.Context, id int, upd model.PlayerUpdate) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("player %d not found", id)
	}
	if upd.IsSpy != nil {
		player.IsSpy = *upd.IsSpy
	}
	copied := *player
	return &copied, nil
}

func (s *MemoryStore) ClearRoles(ctx context.Context, roomCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.RoomCode == roomCode {
			p.IsSpy = false
		}
	}
	return nil
}
