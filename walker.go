package veil

// Walk discovers the field policies declared by a shape.
//
// Traversal is depth-first in declaration order: an encrypted leaf emits one
// policy under its wire name, a composite member's nested policies are
// spliced inline at its position. The result is deterministic for a given
// shape, so wire-name collisions resolve predictably.
//
// Duplicate wire names are retained as found; detecting or resolving
// collisions between differently-nested fields that share a wire name is the
// caller's responsibility.
func Walk(s *Shape) []FieldPolicy {
	if s == nil {
		return nil
	}

	policies := make([]FieldPolicy, 0, len(s.Members))
	return appendPolicies(policies, s)
}

func appendPolicies(policies []FieldPolicy, s *Shape) []FieldPolicy {
	for _, member := range s.Members {
		if member.Nested != nil {
			policies = appendPolicies(policies, member.Nested)
			continue
		}

		if !member.Encrypted {
			continue
		}

		policies = append(policies, FieldPolicy{
			Name:          member.wire(),
			IgnoreWarning: member.IgnoreWarning,
		})
	}

	return policies
}
