package veil

import (
	"context"
	"net/url"
	"time"
)

// Default purposes. Path and query tokens use distinct purposes so they
// never cross-decrypt.
const (
	DefaultPathPurpose  = "veil.path"
	DefaultQueryPurpose = "veil.query"
)

// Transformer orchestrates the path and query strategies for a request.
//
// It owns one Protector per purpose, constructed once and reused across
// requests. Each request's transform is independent and produces fresh
// copies, so a Transformer is safe for unsynchronized concurrent use by
// multiple in-flight requests.
type Transformer struct {
	pathProtector  Protector
	queryProtector Protector

	pathPurpose  string
	queryPurpose string

	mode           QueryMode
	shape          *Shape
	policies       []FieldPolicy
	ignoreWarnings bool
}

// NewTransformer builds a Transformer from a 32-byte root key.
//
// Defaults: greedy query mode, purposes DefaultPathPurpose and
// DefaultQueryPurpose, warnings enabled. Configure with options:
//
//	t, err := veil.NewTransformer(key,
//	    veil.WithQueryMode(veil.QuerySchema),
//	    veil.WithShape(veil.MustShapeOf[Person]()),
//	)
//
// Returns an error wrapping ErrInvalidKeySize for a wrong-sized key. A
// schema mode without a shape is not a construction error (Reveal degrades
// to pass-through); use Validate to surface it at startup.
func NewTransformer(rootKey []byte, opts ...Option) (*Transformer, error) {
	t := &Transformer{
		pathPurpose:  DefaultPathPurpose,
		queryPurpose: DefaultQueryPurpose,
	}

	for _, opt := range opts {
		opt(t)
	}

	var err error
	if t.pathProtector, err = NewProtector(rootKey, t.pathPurpose); err != nil {
		return nil, err
	}
	if t.queryProtector, err = NewProtector(rootKey, t.queryPurpose); err != nil {
		return nil, err
	}

	t.policies = Walk(t.shape)

	emitTransformerCreated(context.Background(), t.pathPurpose, t.queryPurpose, t.mode)
	return t, nil
}

// Validate checks the configuration for gaps that degrade behavior at
// request time. It returns an error wrapping ErrMissingSchema when the
// schema query mode is configured without a shape; Reveal would then pass
// every unclassifiable key through untouched.
//
// Calling Validate explicitly allows catching configuration errors at
// startup.
func (t *Transformer) Validate() error {
	if t.mode == QuerySchema && t.shape == nil {
		return ErrMissingSchema
	}
	return nil
}

// Mode returns the configured query strategy.
func (t *Transformer) Mode() QueryMode {
	return t.mode
}

// PathProtector returns the Protector scoped to the path purpose. Useful
// for sealing identifiers when building outbound links.
func (t *Transformer) PathProtector() Protector {
	return t.pathProtector
}

// QueryProtector returns the Protector scoped to the query purpose.
func (t *Transformer) QueryProtector() Protector {
	return t.queryProtector
}

// Reveal transforms one request's raw path and query into their plaintext
// view.
//
// The path strategy runs unconditionally; the query strategy follows the
// configured mode. Per-value decryption failures never surface as an error:
// the original value is kept and, in schema mode, non-ignored failures are
// aggregated into Result.FailedKeys and a single warning event.
//
// Neither input is mutated. Cancelling ctx simply abandons the transform;
// no shared state is touched mid-flight.
func (t *Transformer) Reveal(ctx context.Context, rawPath string, query url.Values) Result {
	start := time.Now()
	emitRevealStart(ctx, t.mode, countSegments(rawPath), len(query))

	res := Result{Path: RevealPath(t.pathProtector, rawPath)}

	switch t.mode {
	case QuerySchema:
		res.Query, res.FailedKeys = RevealQuerySchema(t.queryProtector, query, t.policies, t.ignoreWarnings)
	default:
		res.Query = RevealQueryGreedy(t.queryProtector, query)
	}

	if len(res.FailedKeys) > 0 {
		emitRevealWarning(ctx, t.queryPurpose, res.FailedKeys)
	}
	emitRevealComplete(ctx, t.mode, time.Since(start), len(res.FailedKeys))

	return res
}

// Conceal re-encrypts a plaintext path for the outbound direction, sealing
// every non-empty segment under the path purpose. It is never applied
// automatically; callers opt in per response.
func (t *Transformer) Conceal(ctx context.Context, path string) (string, error) {
	start := time.Now()

	concealed, err := ConcealPath(t.pathProtector, path)
	emitConcealComplete(ctx, t.pathPurpose, time.Since(start), err)

	return concealed, err
}
