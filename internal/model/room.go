package model

type RoomStatus string

const (
	RoomWaiting RoomStatus = "waiting"
	RoomPlaying RoomStatus = "playing"
)

// Room is a game session keyed by a 4-letter code. Location is set while a
// round is in progress and nil otherwise.
type Room struct {
	Code     string     `json:"code" bson:"_id"`
	Status   RoomStatus `json:"status" bson:"status"`
	Location *string    `json:"location" bson:"location"`
}

// RoomUpdate is a partial room update; nil fields are left as they are.
// Location is a double pointer so the update can distinguish "leave it"
// (nil) from "clear it" (pointer to nil).
type RoomUpdate struct {
	Status   *RoomStatus
	Location **string
}

// RoomView is the full polled read model: the room plus every player in it.
type RoomView struct {
	Room    *Room    `json:"room"`
	Players []Player `json:"players"`
}
