// Command veilserver runs a small demonstration server for the veil
// middleware: an /orders/{orderID} route served through path reveal, a
// /people route served through schema-driven query reveal, and a /seal
// helper that returns the encrypted form of a value for building test URLs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/veilio/veil"
	"github.com/veilio/veil/middleware"
)

// Person is the request-bound shape for the /people route.
type Person struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName" veil:"encrypted"`
}

func main() {
	logger := zerolog.New(os.Stdout).With().
		Str("role", "veilserver").
		Timestamp().
		Logger()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("error getting configs")
	}

	rootKey, err := cfg.RootKey()
	if err != nil {
		logger.Fatal().Err(err).Msg("error decoding root key")
	}

	greedy, err := veil.NewTransformer(rootKey,
		veil.WithPathPurpose(cfg.PathPurpose),
		veil.WithQueryPurpose(cfg.QueryPurpose),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("error building transformer")
	}

	// The schema transformer seals its query tokens under a separate
	// purpose, so the router-wide greedy pass cannot open them and the
	// per-route schema pass sees them intact.
	schemaOpts := []veil.Option{
		veil.WithPathPurpose(cfg.PathPurpose),
		veil.WithQueryPurpose(cfg.PeoplePurpose),
		veil.WithQueryMode(veil.QuerySchema),
		veil.WithShape(veil.MustShapeOf[Person]()),
	}
	if cfg.IgnoreWarnings {
		schemaOpts = append(schemaOpts, veil.WithIgnoreWarnings())
	}
	schema, err := veil.NewTransformer(rootKey, schemaOpts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("error building schema transformer")
	}
	if err := schema.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid schema transformer configuration")
	}

	router := newRouter(&logger, greedy, schema)

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("address", cfg.Address).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

// newRouter assembles the demo routes around the two transformers.
func newRouter(logger *zerolog.Logger, greedy, schema *veil.Transformer) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.Logging)

	// Path reveal must install with a router-level Use, before any routes:
	// chi runs these ahead of route matching, so /orders/{orderID} matches
	// the plaintext path. A Group or With mount runs after matching and the
	// route parameter would hold the raw token. Greedy mode is the only
	// safe choice pre-routing.
	router.Use(middleware.Reveal(greedy))

	router.Get("/orders/{orderID}", getOrder)

	// Schema-driven reveal mounts per route, where the handler shape is
	// known. Query rewriting plays no part in route matching, so the
	// post-matching position is fine here.
	router.With(middleware.Reveal(schema)).Get("/people", getPeople)

	router.Get("/seal", sealValue(greedy, schema))

	return router
}

// getOrder echoes the revealed order ID; with the middleware in place the
// route parameter is already plaintext.
func getOrder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"orderID": chi.URLParam(r, "orderID"),
	})
}

// getPeople echoes the revealed query parameters.
func getPeople(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"firstName": r.URL.Query().Get("firstName"),
		"lastName":  r.URL.Query().Get("lastName"),
	})
}

// sealValue returns the encrypted form of ?value= under one of the demo
// purposes (?kind=path|query|people), for constructing demo URLs.
func sealValue(greedy, schema *veil.Transformer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := r.URL.Query().Get("value")
		if value == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
			return
		}

		protector := greedy.PathProtector()
		switch r.URL.Query().Get("kind") {
		case "query":
			protector = greedy.QueryProtector()
		case "people":
			protector = schema.QueryProtector()
		}

		token, err := protector.Encrypt(value)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encryption failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
