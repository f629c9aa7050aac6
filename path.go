package veil

import "strings"

// RevealPath rewrites a raw request path by decrypting every segment that
// holds a valid token.
//
// The path is split on "/", empty segments (leading or trailing slash,
// consecutive slashes, a token revealing to the empty string) are dropped,
// and each remaining segment is decrypted
// greedily: on success the plaintext replaces the segment, otherwise the
// segment passes through unchanged. Paths carry no schema at interception
// time, so a segment that fails to decrypt is assumed to never have been
// encrypted and no failure is ever reported.
//
// The result is rejoined with "/" and prefixed with a single leading slash.
func RevealPath(p Protector, path string) string {
	segments := strings.Split(path, "/")
	out := make([]string, 0, len(segments))

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if plaintext, err := p.Decrypt(segment); err == nil {
			if plaintext == "" {
				// A token for the empty string reveals to an empty
				// segment; drop it like any other.
				continue
			}
			segment = plaintext
		}
		out = append(out, segment)
	}

	return "/" + strings.Join(out, "/")
}

// countSegments reports the number of non-empty segments in a raw path.
func countSegments(path string) int {
	n := 0
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			n++
		}
	}
	return n
}

// ConcealPath is the forward inverse of RevealPath: every non-empty segment
// is encrypted, empty segments are dropped, and the result carries a single
// leading slash. It is never invoked automatically; the outbound direction
// is opt-in.
func ConcealPath(p Protector, path string) (string, error) {
	segments := strings.Split(path, "/")
	out := make([]string, 0, len(segments))

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		token, err := p.Encrypt(segment)
		if err != nil {
			return "", err
		}
		out = append(out, token)
	}

	return "/" + strings.Join(out, "/"), nil
}
