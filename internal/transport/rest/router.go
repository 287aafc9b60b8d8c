package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"spyroom/internal/service"
	"spyroom/internal/transport/rest/handler"
	"spyroom/internal/transport/rest/middleware"
	"spyroom/internal/transport/ws"
)

// Container holds the router's dependencies.
type Container struct {
	RoomService *service.RoomService
	WSHub       *ws.Hub
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(c.RoomService)
	wsHandler := ws.NewHandler(c.WSHub)

	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogging)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms/join", roomHandler.Join).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms/{code}/reset", roomHandler.Reset).Methods("POST", "OPTIONS")

	// Advisory update notifications; polling GET /api/rooms/{code} remains
	// the read contract.
	api.HandleFunc("/rooms/{code}/ws", wsHandler.ServeRoom).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
