package veil

import "net/url"

// RevealQueryGreedy rewrites query values by attempting to decrypt every
// value of every key. Values that fail to decrypt pass through unchanged and
// nothing is reported.
//
// The input map is never mutated: the result is a fresh map with exactly the
// same keys and per-key value counts, multi-values preserved positionally.
// This strategy requires no schema and is the only one safely usable before
// routing has resolved which handler serves the request.
func RevealQueryGreedy(p Protector, query url.Values) url.Values {
	out := make(url.Values, len(query))

	for key, values := range query {
		rewritten := make([]string, len(values))
		for i, value := range values {
			if value == "" {
				continue
			}
			if plaintext, err := p.Decrypt(value); err == nil {
				rewritten[i] = plaintext
			} else {
				rewritten[i] = value
			}
		}
		out[key] = rewritten
	}

	return out
}

// RevealQuerySchema rewrites query values using schema-declared field
// policies and returns the keys whose values were expected to decrypt but
// did not.
//
// Every input key passes into the output untouched first, so keys with no
// matching policy (never-encrypted parameters coexisting with encrypted
// ones) survive unchanged. Then for each policy whose name is present with a
// non-empty value, decryption is attempted against the mapped scalar form
// (the first value): success overwrites it, failure keeps the original and,
// unless suppressed by ignoreAll or the policy itself, records the key for
// the caller's single aggregated warning.
//
// An empty value means nothing to decrypt: skipped, not reported. A nil or
// empty policy list degrades to a pure copy.
func RevealQuerySchema(p Protector, query url.Values, policies []FieldPolicy, ignoreAll bool) (url.Values, []string) {
	out := make(url.Values, len(query))
	for key, values := range query {
		out[key] = append([]string(nil), values...)
	}

	var failed []string
	reported := make(map[string]bool)

	for _, policy := range policies {
		values, ok := out[policy.Name]
		if !ok || len(values) == 0 {
			continue
		}

		value := values[0]
		if value == "" {
			continue
		}

		plaintext, err := p.Decrypt(value)
		if err == nil {
			values[0] = plaintext
			continue
		}

		if ignoreAll || policy.IgnoreWarning || reported[policy.Name] {
			continue
		}
		reported[policy.Name] = true
		failed = append(failed, policy.Name)
	}

	return out, failed
}
