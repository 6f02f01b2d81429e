package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/database"
)

// DefaultPort is used when PORT is unset or invalid.
const DefaultPort = 8080

// BlacklistCleanupInterval is how often expired revoked tokens are purged.
const BlacklistCleanupInterval = 10 * time.Minute

// MyServer holds the dependencies shared by every route handler
type MyServer struct {
	port int

	DB        *database.DBinstanceStruct
	Blacklist *auth.InMemoryBlacklistStore
}

// NewMyServer builds a MyServer around db with an empty token blacklist.
func NewMyServer(db *database.DBinstanceStruct, port int) *MyServer {
	return &MyServer{
		port:      port,
		DB:        db,
		Blacklist: auth.NewInMemoryBlacklistStore(),
	}
}

// NewServer connects to the main database and constructs the http server.
// The blacklist cleanup goroutine stops when ctx is cancelled.
func NewServer(ctx context.Context) (*http.Server, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = DefaultPort
	}

	db, err := database.GetMainDB()
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	s := NewMyServer(db, port)
	go s.Blacklist.RunCleanup(ctx, BlacklistCleanupInterval)
	log.Printf("Server configured on port %d", port)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
