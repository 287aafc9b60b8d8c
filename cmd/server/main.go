package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spyroom/config"
	"spyroom/internal/cache"
	"spyroom/internal/logger"
	"spyroom/internal/repository"
	"spyroom/internal/service"
	"spyroom/internal/transport/rest"
	"spyroom/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	log := logger.Log
	defer log.Sync()

	ctx := context.Background()

	var (
		rooms   repository.RoomRepo
		players repository.PlayerRepo
		views   cache.ViewCache
	)

	switch cfg.Store {
	case "memory":
		store := repository.NewMemoryStore()
		rooms, players = store, store
		views = cache.Noop()
		log.Info("using in-memory store")
	default:
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalw("failed to connect to MongoDB", "err", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatalw("failed to ping MongoDB", "err", err)
		}
		log.Infow("connected to MongoDB", "db", cfg.MongoDB)

		db := mongoClient.Database(cfg.MongoDB)
		rooms = repository.NewMongoRoomRepo(db)
		players = repository.NewMongoPlayerRepo(db)

		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatalw("failed to ping Redis", "err", err)
		}
		log.Infow("connected to Redis", "addr", cfg.RedisAddr)

		views = cache.NewViewCache(rdb)
	}

	hub := ws.NewHub()

	roomSvc := service.NewRoomService(rooms, players, views)
	roomSvc.SetBroadcaster(hub)

	router := rest.NewRouter(&rest.Container{
		RoomService: roomSvc,
		WSHub:       hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}

	log.Info("server exited")
}
