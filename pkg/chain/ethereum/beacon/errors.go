// Copyright 2025 Certen Protocol

package beacon

import (
	"errors"
	"fmt"
)

// Sentinel errors for beacon client calls.
var (
	ErrNotFound        = errors.New("beacon: resource not found")
	ErrRequestFailed   = errors.New("beacon: request failed")
	ErrDeserialization = errors.New("beacon: failed to decode response")
)

// NodeError wraps a non-2xx, non-404 Beacon API response.
type NodeError struct {
	Status int
	Body   string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("beacon: node returned status %d: %s", e.Status, e.Body)
}
