// Package middleware wires a veil.Transformer into an http.Handler chain.
//
// Reveal rewrites the URL of every inbound request before it reaches the
// next handler, so routing and model binding see plaintext values. Conceal
// optionally re-encrypts the path of outbound redirects. RequestID and
// Logging attach a request-scoped zerolog logger so decrypt warnings carry a
// correlatable request ID.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID(logger))
//	r.Use(middleware.Logging)
//	r.Use(middleware.Reveal(transformer))
package middleware

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/veilio/veil"
)

// Reveal returns middleware that rewrites the request URL through t before
// calling the next handler.
//
// The original request is never mutated: the next handler receives a clone
// whose URL path and query carry the revealed values. Decrypt failures never
// fail the request; in schema mode the non-ignored failed keys are logged
// once through the request-scoped logger.
//
// When path tokens feed route parameters, install Reveal with a router-level
// Use before any routes are registered. Chi bakes Group, With and subrouter
// middleware into the matched endpoint's chain, where it runs after route
// matching — the route pattern would then match the still-encrypted path.
// A Transformer in greedy mode is the only safe choice for a router-level
// installation, because schema information resolves after routing. Mount a
// schema-mode Transformer on individual routes instead, where the handler's
// shape is known; query rewriting plays no part in route matching, so the
// per-route position is safe there.
func Reveal(t *veil.Transformer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			res := t.Reveal(ctx, r.URL.Path, r.URL.Query())

			if len(res.FailedKeys) > 0 {
				zerolog.Ctx(ctx).Warn().
					Strs("keys", res.FailedKeys).
					Msg("query values failed to decrypt")
			}

			revealed := r.Clone(ctx)
			revealed.URL.Path = res.Path
			revealed.URL.RawPath = ""
			revealed.URL.RawQuery = res.Query.Encode()
			revealed.RequestURI = revealed.URL.RequestURI()

			next.ServeHTTP(w, revealed)
		})
	}
}

// Conceal returns middleware that re-encrypts the path of a Location header
// set by the next handler, so redirects expose tokens instead of plaintext
// identifiers. Responses without a Location header pass through untouched.
func Conceal(t *veil.Transformer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &concealWriter{ResponseWriter: w, transformer: t, req: r}
			next.ServeHTTP(cw, r)
		})
	}
}

// concealWriter rewrites the Location header just before headers flush.
type concealWriter struct {
	http.ResponseWriter
	transformer *veil.Transformer
	req         *http.Request
	done        bool
}

func (cw *concealWriter) WriteHeader(code int) {
	cw.concealLocation()
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *concealWriter) Write(b []byte) (int, error) {
	cw.concealLocation()
	return cw.ResponseWriter.Write(b)
}

func (cw *concealWriter) concealLocation() {
	if cw.done {
		return
	}
	cw.done = true

	location := cw.Header().Get("Location")
	if location == "" {
		return
	}

	u, err := url.Parse(location)
	if err != nil || u.Path == "" {
		return
	}

	concealed, err := cw.transformer.Conceal(cw.req.Context(), u.Path)
	if err != nil {
		zerolog.Ctx(cw.req.Context()).Error().
			Err(err).
			Msg("failed to conceal redirect location")
		return
	}

	u.Path = concealed
	u.RawPath = ""
	cw.Header().Set("Location", u.String())
}
