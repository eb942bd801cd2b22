package quota

import "errors"

// ErrQuotaExceeded is returned when a client has used its daily generations.
var ErrQuotaExceeded = errors.New("daily generation quota exceeded")
