package exercises

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadError represents a fatal failure to read or parse the input catalog.
// Unlike store corruption, a bad input file aborts the run before any
// processing starts.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load exercises from %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load exercises from %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads the ordered exercise catalog from a JSON file.
func Load(path string) ([]Exercise, error) {
	if path == "" {
		return nil, &LoadError{Path: path, Message: "input path is empty"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read input file", Cause: err}
	}

	var items []Exercise
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid JSON in input file", Cause: err}
	}

	return items, nil
}
