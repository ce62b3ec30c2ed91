package ai

import "errors"

// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrUnavailable collapses every other provider failure (network, timeout,
// malformed response). Callers surface one generic message per action and
// never retry automatically.
var ErrUnavailable = errors.New("ai service unavailable")
