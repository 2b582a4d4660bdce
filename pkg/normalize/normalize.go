package normalize

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// ErrUnrecognizedSchema is returned when a report parses as JSON but
// lacks the fields required for its tool, or carries a severity value
// outside that tool's vocabulary.
var ErrUnrecognizedSchema = errors.New("unrecognized report schema")

// Report normalizes an extracted JSON document into findings for the
// given source. The returned sequence keeps the order of the source
// report; normalizing the same document twice yields identical output.
func Report(source analysis.Source, doc []byte) ([]analysis.Finding, error) {
	switch source {
	case analysis.SourceSAST:
		return Bandit(doc)
	case analysis.SourceSCA:
		return Safety(doc)
	case analysis.SourceDAST:
		return ZAP(doc)
	}
	return nil, fmt.Errorf("%w: unknown source %q", ErrUnrecognizedSchema, source)
}

// validateSchema gates a document on the minimal JSON Schema for its
// tool before any struct decoding happens, so a missing required field
// fails loudly instead of decoding to zero values.
func validateSchema(source analysis.Source, schema string, doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnrecognizedSchema, source, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: %s: %s", ErrUnrecognizedSchema, source, result.Errors()[0])
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
