// Package normalize turns raw model output into parsed issue records.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/trialscope/internal/models"
)

// RawLimit is how many characters of a raw response are kept for diagnosis.
const RawLimit = 500

// ErrInvalidResponse is matched by every *InvalidResponseError.
var ErrInvalidResponse = errors.New("invalid JSON response")

// InvalidResponseError is returned when a response cannot be parsed into issues.
type InvalidResponseError struct {
	Err error
	// Raw holds the first RawLimit characters of the offending response.
	Raw string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("Invalid JSON response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

func (e *InvalidResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

// Strip removes markdown code-fence wrapping from a response. The checks are
// ordered exact prefix/suffix matches: "```json", then "```", then a trailing "```".
func Strip(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Normalize strips fences and parses the remainder as JSON. The parsed value
// is returned as-is; its shape is not checked here.
func Normalize(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(Strip(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &InvalidResponseError{Err: err, Raw: Truncate(raw)}
	}
	// Reject trailing garbage after the first JSON value.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("invalid character after top-level value")
		}
		return nil, &InvalidResponseError{Err: err, Raw: Truncate(raw)}
	}
	return v, nil
}

// Issues normalizes raw and requires the result to be an array of objects.
func Issues(raw string) ([]models.Issue, error) {
	v, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return nil, &InvalidResponseError{
			Err: fmt.Errorf("expected a JSON array of issues, got %s", kindOf(v)),
			Raw: Truncate(raw),
		}
	}

	issues := make([]models.Issue, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &InvalidResponseError{
				Err: fmt.Errorf("issue %d is %s, not an object", i, kindOf(item)),
				Raw: Truncate(raw),
			}
		}
		issues = append(issues, models.Issue(obj))
	}
	return issues, nil
}

// Truncate returns the first RawLimit characters of s, with "..." appended
// when anything was cut.
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= RawLimit {
		return s
	}
	return string(r[:RawLimit]) + "..."
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
