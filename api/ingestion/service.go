package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"PlatformOrderSaas/api/ingestion/coordinator"
	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/api/ingestion/persist"
	"PlatformOrderSaas/internal/config"
	"PlatformOrderSaas/internal/filestore"
	"PlatformOrderSaas/internal/serviceiface"
	"PlatformOrderSaas/internal/session"
)

const maxUploadBytes = int64(config.MaxUploadBytes)

type IngestionService struct {
	config   map[string]interface{}
	pool     *pgxpool.Pool
	db       *sql.DB
	sessions *session.Manager
	srv      *http.Server
}

func NewIngestionService(cfg map[string]interface{}, pool *pgxpool.Pool, db *sql.DB) serviceiface.Service {
	return &IngestionService{
		config:   cfg,
		pool:     pool,
		db:       db,
		sessions: session.NewManager(config.SessionTTLMinutes * time.Minute),
	}
}

func (s *IngestionService) Name() string {
	return "ingestion"
}

func (s *IngestionService) Start() error {
	go s.serve()
	return nil
}

func (s *IngestionService) Stop() error {
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// Sessions exposes the preview session store for the housekeeping jobs.
func (s *IngestionService) Sessions() *session.Manager {
	return s.sessions
}

func (s *IngestionService) port() int {
	if v, ok := s.config["port"]; ok {
		switch t := v.(type) {
		case int:
			return t
		case float64:
			return int(t)
		}
	}
	return config.DefaultIngestionPort
}

func aggregateEpsilon() decimal.Decimal {
	raw := os.Getenv("AGGREGATE_EPSILON")
	if raw == "" {
		raw = config.DefaultAggregateEpsilon
	}
	eps, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("[ERROR] invalid AGGREGATE_EPSILON %q, using default", raw)
		eps = decimal.RequireFromString(config.DefaultAggregateEpsilon)
	}
	return eps
}

func (s *IngestionService) serve() {
	guard := dedup.NewGuard(s.pool)
	store := persist.NewStore(s.pool)
	coord := coordinator.New(guard, coordinator.NewTxCommitter(store, guard), s.sessions, aggregateEpsilon())
	matcher := NewMatcher(s.db)
	archive := filestore.NewArchiverFromEnv()

	h := NewHandlers(coord, guard, matcher, s.sessions, archive)

	router := mux.NewRouter()
	router.HandleFunc("/ingestion/po/preview", h.PreviewPO).Methods("POST")
	router.HandleFunc("/ingestion/po/commit", h.CommitPO).Methods("POST")
	router.HandleFunc("/ingestion/po/session/{token}", h.GetSession).Methods("GET")
	router.HandleFunc("/ingestion/po/session/{token}", h.DiscardSession).Methods("DELETE")
	router.HandleFunc("/ingestion/auto-populate", h.AutoPopulate).Methods("POST")
	router.HandleFunc("/ingestion/platforms", h.ListPlatforms).Methods("GET")
	router.HandleFunc("/ingestion/uploads", h.ListUploads).Methods("GET")
	router.HandleFunc("/ingestion/health", h.Health).Methods("GET")

	addr := fmt.Sprintf(":%d", s.port())
	s.srv = &http.Server{Addr: addr, Handler: router}
	log.Println("Ingestion Service started on", addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Ingestion Service failed: %v", err)
	}
}
