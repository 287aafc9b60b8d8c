package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spyroom/internal/model"
)

type mongoRoomRepo struct {
	collection *mongo.Collection
}

// NewMongoRoomRepo creates a room repository backed by the "rooms"
// collection, keyed by room code.
func NewMongoRoomRepo(db *mongo.Database) RoomRepo {
	return &mongoRoomRepo{collection: db.Collection("rooms")}
}

func (r *mongoRoomRepo) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *mongoRoomRepo) CreateRoom(ctx context.Context, code string) (*model.Room, error) {
	room := &model.Room{Code: code, Status: model.RoomWaiting}
	if _, err := r.collection.InsertOne(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (r *mongoRoomRepo) UpdateRoom(ctx context.Context, code string, upd model.RoomUpdate) (*model.Room, error) {
	set := roomSet(upd)
	if len(set) == 0 {
		// Mongo rejects an empty $set; a zero-field update reads back the
		// current document instead.
		room, err := r.GetRoom(ctx, code)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, model.ErrRoomNotFound
		}
		return room, nil
	}
	var room model.Room
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": code},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *mongoRoomRepo) UpdateRoomIfStatus(ctx context.Context, code string, expect model.RoomStatus, upd model.RoomUpdate) (bool, error) {
	set := roomSet(upd)
	if len(set) == 0 {
		// Nothing to write; still report whether the guard would match.
		err := r.collection.FindOne(ctx, bson.M{"_id": code, "status": expect}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": code, "status": expect},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// roomSet builds the $set document for a partial room update.
func roomSet(upd model.RoomUpdate) bson.M {
	set := bson.M{}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	return set
}

// playerSet builds the $set document for a partial player update.
func playerSet(upd model.PlayerUpdate) bson.M {
	set := bson.M{}
	if upd.IsSpy != nil {
		set["isSpy"] = *upd.IsSpy
	}
	return set
}

type mongoPlayerRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoPlayerRepo creates a player repository backed by the "players"
// collection. Integer ids come from a "counters" document bumped with an
// atomic $inc, so ids stay unique and monotonic across server restarts.
func NewMongoPlayerRepo(db *mongo.Database) PlayerRepo {
	return &mongoPlayerRepo{
		collection: db.Collection("players"),
		counters:   db.Collection("counters"),
	}
}

func (r *mongoPlayerRepo) nextID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "playerId"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next player id: %w", err)
	}
	return counter.Seq, nil
}

func (r *mongoPlayerRepo) GetPlayers(ctx context.Context, roomCode string) ([]model.Player, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode})
	if err != nil {
		return nil, err
	}
	var players []model.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *mongoPlayerRepo) GetPlayer(ctx context.Context, id int) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *mongoPlayerRepo) CreatePlayer(ctx context.Context, roomCode, name string, isHost bool) (*model.Player, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	player := &model.Player{
		ID:       id,
		RoomCode: roomCode,
		Name:     name,
		IsHost:   isHost,
	}
	if _, err := r.collection.InsertOne(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (r *mongoPlayerRepo) UpdatePlayer(ctx context.Context, id int, upd model.PlayerUpdate) (*model.Player, error) {
	set := playerSet(upd)
	if len(set) == 0 {
		player, err := r.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		if player == nil {
			return nil, fmt.Errorf("player %d not found", id)
		}
		return player, nil
	}
	var player model.Player
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&player)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *mongoPlayerRepo) ClearRoles(ctx context.Context, roomCode string) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"roomCode": roomCode},
		bson.M{"$set": bson.M{"isSpy": false}},
	)
	return err
}
