package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trophyline/gametrack-go/internal/types"
)

func fastRetryConfig(maxRetries int) *types.RetryConfig {
	return &types.RetryConfig{
		MaxRetries:   maxRetries,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		JitterFactor: 0.2,
	}
}

func TestGet_RetriesExhaustedOn503(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	trans := New(&Options{
		BaseURL:     server.URL,
		RetryConfig: fastRetryConfig(2),
	})

	_, err := trans.Get(context.Background(), "/anything", nil)

	require.Error(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts), "maxRetries=2 means 3 total attempts")
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.True(t, types.IsRetryable(err))

	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestGet_RetriesExhaustedOn429(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	trans := New(&Options{
		BaseURL:     server.URL,
		RetryConfig: fastRetryConfig(1),
	})

	_, err := trans.Get(context.Background(), "/anything", nil)

	require.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&attempts))
	assert.ErrorIs(t, err, types.ErrRateLimited)
}

func TestGet_NoRetryOnTerminalStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		sentinel   error
	}{
		{"404 not found", http.StatusNotFound, types.ErrNotFound},
		{"401 unauthorized", http.StatusUnauthorized, types.ErrNotAuthenticated},
		{"403 forbidden", http.StatusForbidden, types.ErrNotAuthenticated},
		{"400 bad request", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			trans := New(&Options{
				BaseURL:     server.URL,
				RetryConfig: fastRetryConfig(5),
			})

			_, err := trans.Get(context.Background(), "/anything", nil)

			require.Error(t, err)
			assert.EqualValues(t, 1, atomic.LoadInt32(&attempts), "terminal status must not be retried")
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.False(t, types.IsRetryable(err))
		})
	}
}

func TestGet_RecoversAfterTransientFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	trans := New(&Options{
		BaseURL:     server.URL,
		RetryConfig: fastRetryConfig(3),
	})

	resp, err := trans.Get(context.Background(), "/anything", nil)

	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestGet_CancellationSkipsBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	trans := New(&Options{
		BaseURL: server.URL,
		RetryConfig: &types.RetryConfig{
			MaxRetries:   3,
			BaseDelay:    10 * time.Second,
			MaxDelay:     30 * time.Second,
			JitterFactor: 0.2,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := trans.Get(ctx, "/anything", nil)

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must abort the pending backoff sleep")
}

func TestUnjitteredDelay_DoublesAndSaturates(t *testing.T) {
	cfg := &types.RetryConfig{
		BaseDelay:    time.Second,
		MaxDelay:     10 * time.Second,
		JitterFactor: 0.2,
	}

	var prev time.Duration
	for attempt := 0; attempt < 8; attempt++ {
		delay := unjitteredDelay(cfg, attempt)
		assert.LessOrEqual(t, delay, cfg.MaxDelay)
		assert.GreaterOrEqual(t, delay, prev, "delay sequence must be non-decreasing")
		prev = delay
	}

	assert.Equal(t, 2*time.Second, unjitteredDelay(cfg, 0))
	assert.Equal(t, 4*time.Second, unjitteredDelay(cfg, 1))
	assert.Equal(t, 8*time.Second, unjitteredDelay(cfg, 2))
	assert.Equal(t, 10*time.Second, unjitteredDelay(cfg, 3))
	assert.Equal(t, 10*time.Second, unjitteredDelay(cfg, 7))
}

func TestBackoff_JitterBounds(t *testing.T) {
	cfg := &types.RetryConfig{
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
	}
	fn := backoff(cfg)

	for i := 0; i < 100; i++ {
		delay := fn(cfg.BaseDelay, cfg.MaxDelay, 0, nil)
		assert.GreaterOrEqual(t, delay, time.Duration(float64(2*time.Second)*0.8))
		assert.LessOrEqual(t, delay, time.Duration(float64(2*time.Second)*1.2))
	}
}

func TestBackoff_ZeroJitterIsDeterministic(t *testing.T) {
	cfg := &types.RetryConfig{
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0,
	}
	fn := backoff(cfg)

	assert.Equal(t, 2*time.Second, fn(cfg.BaseDelay, cfg.MaxDelay, 0, nil))
	assert.Equal(t, 4*time.Second, fn(cfg.BaseDelay, cfg.MaxDelay, 1, nil))
}

func TestGet_DefaultHeadersApplied(t *testing.T) {
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	trans := New(&Options{BaseURL: server.URL})
	trans.SetHeader("Authorization", "Bearer XYZ")

	_, err := trans.Get(context.Background(), "/anything", nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer XYZ", gotAuth)
	assert.Equal(t, types.UserAgent, gotAgent)
}

// Token rotation must not race with in-flight requests reading the default
// header map; run with -race.
func TestSetHeader_ConcurrentWithRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	trans := New(&Options{BaseURL: server.URL})
	trans.SetHeader("Authorization", "Bearer initial")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := trans.Get(context.Background(), "/anything", nil)
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			trans.SetHeader("Authorization", fmt.Sprintf("Bearer rotated-%d", i))
		}(i)
	}
	wg.Wait()
}

func TestHandleHTTPError_ServerErrorIncludesDescriptionAndBody(t *testing.T) {
	trans := &Transport{}

	tests := []struct {
		name          string
		statusCode    int
		body          string
		expectedInMsg string
	}{
		{"500 with body", 500, `{"error":"db down"}`, "Internal Server Error"},
		{"502 bad gateway", 502, "", "Bad Gateway"},
		{"503 unavailable", 503, "busy", "Service Unavailable"},
		{"521 cdn", 521, "", "Web Server Is Down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trans.handleHTTPError(tt.statusCode, []byte(tt.body))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedInMsg)

			var apiErr *types.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.body, apiErr.RawBody)
		})
	}
}
