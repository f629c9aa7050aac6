package veil

// Option configures a Transformer.
type Option func(*Transformer)

// WithPathPurpose overrides the purpose string namespacing path tokens.
// Distinct installations should use distinct purposes so their tokens never
// collide.
func WithPathPurpose(purpose string) Option {
	return func(t *Transformer) {
		t.pathPurpose = purpose
	}
}

// WithQueryPurpose overrides the purpose string namespacing query tokens.
func WithQueryPurpose(purpose string) Option {
	return func(t *Transformer) {
		t.queryPurpose = purpose
	}
}

// WithQueryMode selects the query strategy. The schema mode needs a shape
// (see WithShape) and is only effective after routing has resolved the
// target handler; the greedy default is the safe pre-routing choice.
func WithQueryMode(mode QueryMode) Option {
	return func(t *Transformer) {
		t.mode = mode
	}
}

// WithShape supplies the target shape for the schema query mode. The shape
// is walked once at construction; the resulting policies are immutable for
// the Transformer's lifetime.
func WithShape(shape *Shape) Option {
	return func(t *Transformer) {
		t.shape = shape
	}
}

// WithIgnoreWarnings globally suppresses decrypt-failure warnings in the
// schema query mode, regardless of per-field settings.
func WithIgnoreWarnings() Option {
	return func(t *Transformer) {
		t.ignoreWarnings = true
	}
}
