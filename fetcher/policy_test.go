package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/usesift/sift/models"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.ErrorKind
		status int
		want   bool
	}{
		{"timeout", models.ErrorKindTimeout, 0, true},
		{"network error", models.ErrorKindNetworkError, 0, true},
		{"http 429", models.ErrorKindHTTPError, 429, true},
		{"http 500", models.ErrorKindHTTPError, 500, true},
		{"http 503", models.ErrorKindHTTPError, 503, true},
		{"http 400", models.ErrorKindHTTPError, 400, false},
		{"http 403", models.ErrorKindHTTPError, 403, false},
		{"http 404", models.ErrorKindHTTPError, 404, false},
		{"http 410", models.ErrorKindHTTPError, 410, false},
		{"invalid url", models.ErrorKindInvalidURL, 0, false},
		{"too large", models.ErrorKindTooLarge, 200, false},
		{"none", models.ErrorKindNone, 200, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetry(tt.kind, tt.status))
		})
	}
}

func TestRetryDelayIsLinear(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, 100*time.Millisecond, retryDelay(base, 1))
	assert.Equal(t, 200*time.Millisecond, retryDelay(base, 2))
	assert.Equal(t, 300*time.Millisecond, retryDelay(base, 3))
	// Out-of-range attempt numbers clamp to the first delay.
	assert.Equal(t, 100*time.Millisecond, retryDelay(base, 0))
}
