package repository

import (
	"context"

	"spyroom/internal/model"
)

// RoomRepo is the durable room contract. GetRoom returns (nil, nil) when no
// room holds the code. Rooms are never deleted.
type RoomRepo interface {
	GetRoom(ctx context.Context, code string) (*model.Room, error)
	CreateRoom(ctx context.Context, code string) (*model.Room, error)
	UpdateRoom(ctx context.Context, code string, upd model.RoomUpdate) (*model.Room, error)
	// UpdateRoomIfStatus applies upd only while the room's status still
	// equals expect, reporting whether the write landed. This is the
	// optimistic guard that keeps concurrent Start calls from both winning.
	UpdateRoomIfStatus(ctx context.Context, code string, expect model.RoomStatus, upd model.RoomUpdate) (bool, error)
}

// PlayerRepo is the durable player contract. GetPlayer returns (nil, nil)
// for unknown ids. Players are never deleted and ids are never reused.
type PlayerRepo interface {
	GetPlayers(ctx context.Context, roomCode string) ([]model.Player, error)
	GetPlayer(ctx context.Context, id int) (*model.Player, error)
	CreatePlayer(ctx context.Context, roomCode, name string, isHost bool) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id int, upd model.PlayerUpdate) (*model.Player, error)
	// ClearRoles bulk-resets isSpy for every player in the room.
	ClearRoles(ctx context.Context, roomCode string) error
}
