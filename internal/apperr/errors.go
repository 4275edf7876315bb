package apperr

import "errors"

// Sentinels for the error classes handlers translate into HTTP statuses.
// Capability failures are handled inside services with fallback values and
// should only reach a handler from the direct pass-through endpoints.
var (
  ErrValidation = errors.New("validation error")
  ErrNotFound   = errors.New("not found")
  ErrCapability = errors.New("capability unavailable")
)
