package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotReady           = errors.New("artifacts not loaded")
	ErrArtifactLoad       = errors.New("artifact load failed")
	ErrStructuralMismatch = errors.New("feature shape mismatch")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
