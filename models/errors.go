package models

import "errors"

// Error kinds surfaced by the simulation core. Callers distinguish them with
// errors.Is; everything else is wrapped context around one of these.
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrNotFound           = errors.New("not found")
	ErrStoreCorrupt       = errors.New("history store corrupt")
	ErrIntegrationFailure = errors.New("integration failure")
)
