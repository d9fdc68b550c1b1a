package outline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidOutline is wrapped by every validation failure.
var ErrInvalidOutline = errors.New("invalid outline")

var validLevels = map[string]bool{"H1": true, "H2": true, "H3": true}

// ValidateJSON checks that data is an outline document: an object with a
// title and an outline list whose items carry an H1-H3 level, a text and a
// positive integer page.
func ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidOutline, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: invalid JSON: trailing data", ErrInvalidOutline)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return invalid("document must be an object")
	}
	if _, ok := doc["title"]; !ok {
		return invalid("Missing 'title' field")
	}
	rawOutline, ok := doc["outline"]
	if !ok {
		return invalid("Missing 'outline' field")
	}
	items, ok := rawOutline.([]any)
	if !ok {
		return invalid("'outline' must be a list")
	}

	for i, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			return invalid(fmt.Sprintf("outline[%d] must be an object", i))
		}
		for _, field := range []string{"level", "text", "page"} {
			if _, ok := item[field]; !ok {
				return invalid(fmt.Sprintf("outline[%d] missing '%s' field", i, field))
			}
		}
		if level, _ := item["level"].(string); !validLevels[level] {
			return invalid(fmt.Sprintf("outline[%d] has invalid level: %v", i, item["level"]))
		}
		if !positiveInt(item["page"]) {
			return invalid(fmt.Sprintf("outline[%d] has invalid page number: %v", i, item["page"]))
		}
	}
	return nil
}

// ValidateFile reads and validates one output file.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return ValidateJSON(data)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOutline, msg)
}

func positiveInt(v any) bool {
	n, ok := v.(json.Number)
	if !ok {
		return false
	}
	i, err := n.Int64()
	return err == nil && i >= 1
}
