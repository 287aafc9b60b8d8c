package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"spyroom/internal/model"
	"spyroom/internal/repository"
)

// MinPlayers is the authoritative minimum to start a round.
const MinPlayers = 2

// Machine owns the waiting/playing transitions and role assignment. It is
// the only code that mutates room status or spy flags.
type Machine struct {
	rooms   repository.RoomRepo
	players repository.PlayerRepo
}

func NewMachine(rooms repository.RoomRepo, players repository.PlayerRepo) *Machine {
	return &Machine{rooms: rooms, players: players}
}

// Start moves a waiting room into playing: it picks a location, clears any
// stale roles and marks exactly one player as the spy. The room update is
// conditional on status still being waiting, so a racing second Start loses
// and mutates nothing.
func (m *Machine) Start(ctx context.Context, code string, requesterID int) error {
	room, err := m.rooms.GetRoom(ctx, code)
	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return model.ErrRoomNotFound
	}

	requester, err := m.players.GetPlayer(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if requester == nil || requester.RoomCode != code || !requester.IsHost {
		return &model.AuthorizationError{Message: "Only the host can start the game"}
	}

	players, err := m.players.GetPlayers(ctx, code)
	if err != nil {
		return fmt.Errorf("get players: %w", err)
	}
	if len(players) < MinPlayers {
		return &model.StateError{Message: fmt.Sprintf("Need at least %d players", MinPlayers)}
	}

	location := Locations[rand.IntN(len(Locations))]
	locPtr := &location
	playing := model.RoomPlaying
	ok, err := m.rooms.UpdateRoomIfStatus(ctx, code, model.RoomWaiting, model.RoomUpdate{
		Status:   &playing,
		Location: &locPtr,
	})
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if !ok {
		return &model.StateError{Message: "Game already started"}
	}

	// The clear and the assignment below are separate writes, not a
	// transaction; a poll landing between them sees a playing room with no
	// spy yet. The next poll tick picks it up.
	if err := m.players.ClearRoles(ctx, code); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}

	spy := players[rand.IntN(len(players))]
	isSpy := true
	if _, err := m.players.UpdatePlayer(ctx, spy.ID, model.PlayerUpdate{IsSpy: &isSpy}); err != nil {
		return fmt.Errorf("assign spy: %w", err)
	}
	return nil
}

// Reset puts a room back into waiting and clears the round's location and
// roles. Resetting an already-waiting room rewrites the same values, which
// is harmless, so there is no status precondition here; only the host check
// gates it.
func (m *Machine) Reset(ctx context.Context, code string, requesterID int) error {
	room, err := m.rooms.GetRoom(ctx, code)
	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return model.ErrRoomNotFound
	}

	requester, err := m.players.GetPlayer(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if requester == nil || requester.RoomCode != code || !requester.IsHost {
		return &model.AuthorizationError{Message: "Only the host can end the game"}
	}

	waiting := model.RoomWaiting
	var noLocation *string
	if _, err := m.rooms.UpdateRoom(ctx, code, model.RoomUpdate{
		Status:   &waiting,
		Location: &noLocation,
	}); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if err := m.players.ClearRoles(ctx, code); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	return nil
}
