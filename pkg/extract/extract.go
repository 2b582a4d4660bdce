package extract

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// ErrMalformedReport is returned when no balanced, parseable JSON
// region can be recovered from a report stream.
var ErrMalformedReport = errors.New("malformed report")

// JSON recovers the first balanced JSON object or array embedded in b.
// Scanner stdout is untrusted, potentially mixed text: banners,
// deprecation warnings and progress lines may surround the payload, so
// the input is never handed to a JSON parser directly.
//
// The scan starts at the first '{' or '[' and tracks nesting depth,
// skipping over quoted strings (including backslash-escaped quotes) so
// braces inside string literals do not perturb the count. When more
// than one top-level JSON value is present, the first balanced region
// wins and the rest is ignored.
func JSON(b []byte) ([]byte, error) {
	start := -1
	for i := 0; i < len(b); i++ {
		if b[i] == '{' || b[i] == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object or array in input", ErrMalformedReport)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(b); i++ {
		c := b[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return standardize(b[start : i+1])
			}
		}
	}

	// unterminated string or unbalanced braces; never a partial parse
	return nil, fmt.Errorf("%w: unbalanced JSON region", ErrMalformedReport)
}

// standardize runs the candidate through hujson first to tolerate
// comments and trailing commas some tools emit, then verifies the
// result is standard JSON.
func standardize(candidate []byte) ([]byte, error) {
	std, err := hujson.Standardize(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if !json.Valid(std) {
		return nil, fmt.Errorf("%w: extracted region is not valid JSON", ErrMalformedReport)
	}
	return std, nil
}
