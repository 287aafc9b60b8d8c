package model

// Player is a participant bound to exactly one room. IDs are integers
// allocated once per process/store and never reused, so a client can hold
// onto its id across reloads.
type Player struct {
	ID       int    `json:"id" bson:"_id"`
	RoomCode string `json:"roomCode" bson:"roomCode"`
	Name     string `json:"name" bson:"name"`
	IsHost   bool   `json:"isHost" bson:"isHost"`
	IsSpy    bool   `json:"isSpy" bson:"isSpy"`
}

// PlayerUpdate is a partial player update; nil fields are left as they are.
type PlayerUpdate struct {
	IsSpy *bool
}
