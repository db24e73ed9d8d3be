package plannerd

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/rocketplan/internal/planconfig"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao/inmem"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao/sqlite"
)

// Server owns the API, its backing store, and the http.Server wrapping
// them (spec SPEC_FULL.md's plannerd design), following the shape of the
// teacher's server.TunaQuestServer: a small struct that New builds from
// config and ServeForever runs until the process stops.
type Server struct {
	api   *API
	addr  string
	store dao.Store
}

// New builds a Server from cfg. The database driver determines whether
// jobs and API keys are kept in memory (driver "inmem", the default, lost
// on restart) or persisted to a sqlite file (driver "sqlite").
func New(cfg planconfig.Config) (*Server, error) {
	store, err := openStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	secret := []byte(cfg.Server.JWTSecret)
	if len(secret) == 0 {
		return nil, errors.New("server.jwt_secret must be set")
	}

	return &Server{
		api: &API{
			Store:     store,
			JWTSecret: secret,
			MaxLevel:  cfg.Planner.MaxLevel,
		},
		addr:  cfg.Server.ListenAddr,
		store: store,
	}, nil
}

func openStore(cfg planconfig.DatabaseConfig) (dao.Store, error) {
	switch cfg.Driver {
	case "", "inmem":
		return inmem.NewDatastore(), nil
	case "sqlite":
		return sqlite.NewDatastore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Store exposes the backing dao.Store, for callers (e.g. an admin CLI
// subcommand that issues API keys) that need direct access alongside the
// HTTP surface.
func (s *Server) Store() dao.Store { return s.store }

// ServeForever starts the HTTP listener and blocks until it stops, logging
// every request the way the teacher's server does (plain log.Printf, no
// structured logging library in the ambient stack beyond what spec.md
// already needs).
func (s *Server) ServeForever() error {
	log.Printf("plannerd listening on %s", s.addr)
	return http.ListenAndServe(s.addr, logRequests(s.api.Router()))
}

// Close tears down the backing store.
func (s *Server) Close() error {
	return s.store.Close()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Printf("%s %s", req.Method, req.URL.Path)
		next.ServeHTTP(w, req)
	})
}
