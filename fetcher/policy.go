package fetcher

import (
	"time"

	"github.com/usesift/sift/models"
)

// shouldRetry decides whether a failed attempt is worth repeating, from
// the error kind and status code alone. Timeouts and network faults are
// transient. Among HTTP errors only 429 and 5xx are transient; other 4xx
// are terminal client errors and retrying them just burns the budget.
func shouldRetry(kind models.ErrorKind, statusCode int) bool {
	switch kind {
	case models.ErrorKindTimeout, models.ErrorKindNetworkError:
		return true
	case models.ErrorKindHTTPError:
		return statusCode == 429 || statusCode >= 500
	default:
		return false
	}
}

// retryDelay returns the linear backoff before the next attempt: the
// first retry waits base, the second 2*base, and so on.
func retryDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(attempt) * base
}
