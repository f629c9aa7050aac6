// Package veil transforms encrypted tokens embedded in URLs back into their
// plaintext logical values, so a service can expose opaque, tamper-evident
// identifiers (e.g. /orders/{token}) while request-handling code sees plain
// values.
//
// # Model
//
// A Protector encrypts and decrypts single string values under a purpose
// string. Tokens sealed under one purpose never decrypt under another, so
// path tokens and query tokens cannot be confused, and two installations
// with different purposes cannot read each other's URLs.
//
// A Transformer applies two strategies to an inbound request:
//
//   - Path: every non-empty segment is decrypted greedily; segments that are
//     not valid tokens pass through unchanged. Paths carry no schema at
//     interception time, so there is no signal to report.
//   - Query: either greedy (decrypt every value, silent fallback) or
//     schema-driven (only keys declared encrypted by a Shape are decrypted,
//     and failures on non-ignored keys are aggregated into one warning).
//
// # Shapes
//
// Field behavior is declared via struct tags and scanned once at startup:
//
//	type Person struct {
//	    FirstName string `json:"firstName"`
//	    LastName  string `json:"lastName" veil:"encrypted"`
//	    SSN       string `json:"ssn" veil:"encrypted,nowarn"`
//	}
//
//	shape, err := veil.ShapeOf[Person]()
//
// Encryption markers on fields nested arbitrarily deep inside the bound
// object graph are discovered recursively. Shapes can also be built by hand
// with NewShape for callers without a struct to scan.
//
// # Basic Usage
//
//	t, _ := veil.NewTransformer(rootKey,
//	    veil.WithQueryMode(veil.QuerySchema),
//	    veil.WithShape(veil.MustShapeOf[Person]()),
//	)
//
//	res := t.Reveal(ctx, r.URL.Path, r.URL.Query())
//	// res.Path and res.Query carry plaintext values;
//	// res.FailedKeys lists schema-marked keys that did not decrypt.
//
// Reveal never returns an error: a value that fails to decrypt is a
// data-quality signal, not a hard failure, and the original value is kept.
// The middleware subpackage wires a Transformer into an http.Handler chain.
package veil

import "net/url"

// Protector encrypts and decrypts single string values under a fixed
// purpose. Implementations must be safe for concurrent use and must return
// an error wrapping ErrInvalidCiphertext from Decrypt for any token that is
// malformed, truncated, tampered with, or sealed under a different purpose.
type Protector interface {
	// Encrypt seals plaintext and returns an opaque URL-safe token.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens a token and returns the original plaintext.
	Decrypt(token string) (string, error)
}

// QueryMode selects which query strategy a Transformer applies.
//
// The schema-driven mode needs the resolved handler shape, which is only
// known after routing; the greedy mode is the only one safely usable before
// routing. Callers select the mode explicitly per pipeline phase.
type QueryMode int

const (
	// QueryGreedy attempts to decrypt every query value and silently keeps
	// the original on failure. Requires no schema.
	QueryGreedy QueryMode = iota

	// QuerySchema decrypts only values whose keys carry a field policy from
	// the configured Shape, and classifies failures as ignorable or
	// reportable.
	QuerySchema
)

// String returns the mode name used in observability events.
func (m QueryMode) String() string {
	switch m {
	case QuerySchema:
		return "schema"
	default:
		return "greedy"
	}
}

// FieldPolicy is the resolved decision record for one schema-declared
// encrypted field: the wire-level key it arrives under and whether a failed
// decrypt should be suppressed from the warning event.
type FieldPolicy struct {
	Name          string
	IgnoreWarning bool
}

// Result is the transformed view of one request's URL parts.
//
// Both Path and Query are total functions of the input: every input segment
// and every input key appear in the output, only values are rewritten.
type Result struct {
	// Path is the rewritten path, prefixed with a single leading slash.
	Path string

	// Query is a fresh map holding the rewritten query values.
	Query url.Values

	// FailedKeys lists schema-marked keys that were expected to decrypt but
	// did not, excluding keys suppressed per-field or globally. Empty in
	// greedy mode.
	FailedKeys []string
}
