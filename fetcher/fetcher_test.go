package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usesift/sift/config"
	"github.com/usesift/sift/models"
)

func newTestFetcher() *Fetcher {
	return New(config.FetcherConfig{
		DefaultTimeout:    5 * time.Second,
		MaxTimeout:        10 * time.Second,
		MaxBytes:          1 << 20,
		MaxRetries:        2,
		RetryBaseDelay:    time.Millisecond,
		MaxRedirects:      10,
		AllowPrivateHosts: true,
	})
}

func intPtr(n int) *int { return &n }

func TestFetchSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, models.ErrorKindNone, res.ErrorKind)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, srv.URL, res.FinalURL)
	assert.Contains(t, string(res.Body), "hello")
	assert.Contains(t, res.ContentType, "text/html")
	assert.Contains(t, res.Headers, "Content-Type")
	assert.False(t, res.Truncated)

	// Identity comes from the rotation pool, which is all browser UAs.
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html><body>recovered</body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchExhaustsRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{MaxRetries: intPtr(2)})
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, models.ErrorKindHTTPError, res.ErrorKind)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, models.ErrorKindHTTPError, res.ErrorKind)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchTruncatesOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 5000)))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{MaxBytes: 1000})
	require.NoError(t, err)

	// Truncation is not a failure: the prefix is still usable.
	assert.True(t, res.Succeeded)
	assert.True(t, res.Truncated)
	assert.Equal(t, models.ErrorKindTooLarge, res.ErrorKind)
	assert.Len(t, res.Body, 1000)
}

func TestFetchBodyAtExactCapIsNotTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{MaxBytes: 1000})
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.False(t, res.Truncated)
	assert.Equal(t, models.ErrorKindNone, res.ErrorKind)
	assert.Len(t, res.Body, 1000)
}

func TestFetchTimesOutPerAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("too late"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL, Options{
		Timeout:    30 * time.Millisecond,
		MaxRetries: intPtr(0),
	})
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, models.ErrorKindTimeout, res.ErrorKind)
	assert.Equal(t, 1, res.Attempts)
}

func TestFetchCancellationStopsRetryLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	f := newTestFetcher()
	start := time.Now()
	res, err := f.Fetch(ctx, srv.URL, Options{MaxRetries: intPtr(5)})
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, models.ErrorKindNetworkError, res.ErrorKind)
	assert.Equal(t, 1, res.Attempts, "a canceled context must not trigger retries")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>moved here</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), srv.URL+"/old", Options{})
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, srv.URL+"/new", res.FinalURL)
	assert.Equal(t, srv.URL+"/old", res.URL)
}

func TestFetchRejectsInvalidURLBeforeNetwork(t *testing.T) {
	f := newTestFetcher()

	res, err := f.Fetch(context.Background(), "ftp://example.com/file", Options{})
	require.Error(t, err)
	assert.Nil(t, res)

	var engErr *models.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, models.ErrCodeInvalidURL, engErr.Code)
}

func TestFetchReportsNetworkErrorForUnreachableHost(t *testing.T) {
	// Reserved TEST-NET-1 address, nothing listens there.
	f := New(config.FetcherConfig{
		DefaultTimeout:    100 * time.Millisecond,
		MaxBytes:          1 << 20,
		MaxRetries:        0,
		RetryBaseDelay:    time.Millisecond,
		AllowPrivateHosts: true,
	})
	res, err := f.Fetch(context.Background(), "http://192.0.2.1:81/", Options{})
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Contains(t, []models.ErrorKind{
		models.ErrorKindNetworkError,
		models.ErrorKindTimeout,
	}, res.ErrorKind)
	assert.NotEmpty(t, res.ErrorMessage)
}
