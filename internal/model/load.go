package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrModelUnavailable marks a model artifact that could not be loaded. The
// artifact is static for the lifetime of the process, so this failure is
// fatal at startup: the service must not serve predictions without a model.
var ErrModelUnavailable = errors.New("model unavailable")

// Load reads and validates a model artifact from disk. All failures wrap
// ErrModelUnavailable.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact %s: %v", ErrModelUnavailable, path, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: parse artifact %s: %v", ErrModelUnavailable, path, err)
	}

	forest, err := New(&artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid artifact %s: %v", ErrModelUnavailable, path, err)
	}
	return forest, nil
}
