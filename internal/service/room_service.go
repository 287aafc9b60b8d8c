package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"spyroom/internal/cache"
	"spyroom/internal/game"
	"spyroom/internal/logger"
	"spyroom/internal/model"
	"spyroom/internal/repository"
)

// Broadcaster pokes room subscribers after a mutation so they can re-poll
// right away. It carries no payload beyond the room code.
type Broadcaster interface {
	RoomChanged(code string)
}

const maxNameLen = 20

// codeAttempts caps the unique-code loop; with 26^4 codes it only trips
// when the store is effectively full.
const codeAttempts = 10

// RoomService validates input, orchestrates the state machine and owns the
// read path for polling clients.
type RoomService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	machine     *game.Machine
	views       cache.ViewCache
	broadcaster Broadcaster
}

func NewRoomService(rooms repository.RoomRepo, players repository.PlayerRepo, views cache.ViewCache) *RoomService {
	return &RoomService{
		rooms:   rooms,
		players: players,
		machine: game.NewMachine(rooms, players),
		views:   views,
	}
}

// SetBroadcaster wires the notify hub in; nil means polling only.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom makes a fresh room and its host player.
func (s *RoomService) CreateRoom(ctx context.Context, name string) (*model.Player, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.CreateRoom(ctx, code); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	host, err := s.players.CreatePlayer(ctx, code, name, true)
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}

	logger.Log.Infow("room created", "code", code, "hostId", host.ID)
	return host, nil
}

// JoinRoom adds a non-host player to an existing room. Room size is not
// capped here; that is UI guidance only.
func (s *RoomService) JoinRoom(ctx context.Context, name, roomCode string) (*model.Player, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(roomCode) != 4 {
		return nil, &model.ValidationError{Field: "roomCode", Message: "Room code must be exactly 4 characters"}
	}
	code := strings.ToUpper(roomCode)

	room, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, model.ErrRoomNotFound
	}

	player, err := s.players.CreatePlayer(ctx, code, name, false)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	s.roomChanged(ctx, code)
	logger.Log.Infow("player joined", "code", code, "playerId", player.ID)
	return player, nil
}

// GetRoom is the polled read path: the room plus its full player list,
// served from the view cache when fresh. Every player's isSpy flag is in
// the response; hiding other players' roles is left to the client.
func (s *RoomService) GetRoom(ctx context.Context, roomCode string) (*model.RoomView, error) {
	code := strings.ToUpper(roomCode)

	if view, err := s.views.Get(ctx, code); err != nil {
		logger.Log.Warnw("view cache read failed", "code", code, "err", err)
	} else if view != nil {
		return view, nil
	}

	room, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, model.ErrRoomNotFound
	}
	players, err := s.players.GetPlayers(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	if players == nil {
		players = []model.Player{}
	}

	view := &model.RoomView{Room: room, Players: players}
	if err := s.views.Set(ctx, code, view); err != nil {
		logger.Log.Warnw("view cache write failed", "code", code, "err", err)
	}
	return view, nil
}

// StartGame runs the waiting->playing transition on behalf of playerID.
func (s *RoomService) StartGame(ctx context.Context, roomCode string, playerID int) error {
	code := strings.ToUpper(roomCode)
	if err := s.machine.Start(ctx, code, playerID); err != nil {
		return err
	}
	s.roomChanged(ctx, code)
	logger.Log.Infow("game started", "code", code, "playerId", playerID)
	return nil
}

// ResetGame runs the playing->waiting transition on behalf of playerID.
func (s *RoomService) ResetGame(ctx context.Context, roomCode string, playerID int) error {
	code := strings.ToUpper(roomCode)
	if err := s.machine.Reset(ctx, code, playerID); err != nil {
		return err
	}
	s.roomChanged(ctx, code)
	logger.Log.Infow("game reset", "code", code, "playerId", playerID)
	return nil
}

// roomChanged drops the cached view and pokes subscribers after any
// successful mutation.
func (s *RoomService) roomChanged(ctx context.Context, code string) {
	if err := s.views.Invalidate(ctx, code); err != nil {
		logger.Log.Warnw("view cache invalidate failed", "code", code, "err", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.RoomChanged(code)
	}
}

// uniqueCode rolls room codes until one is free in the store.
func (s *RoomService) uniqueCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < codeAttempts; attempts++ {
		code := game.NewCode()
		existing, err := s.rooms.GetRoom(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}

func validateName(name string) error {
	if name == "" {
		return &model.ValidationError{Field: "name", Message: "Name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return &model.ValidationError{Field: "name", Message: "Name too long"}
	}
	return nil
}
