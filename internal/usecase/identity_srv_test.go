package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"reserveit/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestValidator(url string, timeout time.Duration) IdentityValidator {
	return NewIdentityValidator(utils.IdentityConfig{
		URL:         url,
		Timeout:     timeout,
		MaxAttempts: 3,
		Backoff:     5 * time.Millisecond,
	}, zap.NewNop())
}

func TestIdentityValidator_ValidUser(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL+"/api/auth/", time.Second).Validate(context.Background(), "user-42")
	assert.Equal(t, IdentityValid, status)
	assert.Equal(t, "/api/auth/validate/user-42", path.Load())
}

func TestIdentityValidator_InvalidUserIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"valid": false}`))
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL, time.Second).Validate(context.Background(), "ghost")
	assert.Equal(t, IdentityInvalid, status)
	assert.Equal(t, int32(1), hits.Load())
}

func TestIdentityValidator_OKButNotValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid": false}`))
	}))
	defer srv.Close()

	assert.Equal(t, IdentityInvalid, newTestValidator(srv.URL, time.Second).Validate(context.Background(), "u"))
}

func TestIdentityValidator_PlainNotFoundIsInvalid(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL, time.Second).Validate(context.Background(), "ghost")
	assert.Equal(t, IdentityInvalid, status)
	assert.Equal(t, int32(1), hits.Load())
}

func TestIdentityValidator_UndecodableOKIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL, time.Second).Validate(context.Background(), "u")
	assert.Equal(t, IdentityUnavailable, status)
	assert.Equal(t, int32(3), hits.Load())
}

func TestIdentityValidator_ServerErrorsExhaustAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL, time.Second).Validate(context.Background(), "u")
	assert.Equal(t, IdentityUnavailable, status)
	assert.Equal(t, int32(3), hits.Load())
}

func TestIdentityValidator_RecoversOnRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	status := newTestValidator(srv.URL, time.Second).Validate(context.Background(), "u")
	assert.Equal(t, IdentityValid, status)
	assert.Equal(t, int32(3), hits.Load())
}

func TestIdentityValidator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	status := newTestValidator(url, 200*time.Millisecond).Validate(context.Background(), "u")
	assert.Equal(t, IdentityUnavailable, status)
}

func TestIdentityValidator_TimeoutCountsAsUnavailable(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	status := newTestValidator(srv.URL, 50*time.Millisecond).Validate(context.Background(), "u")
	assert.Equal(t, IdentityUnavailable, status)
	assert.Equal(t, int32(3), hits.Load())
}

func TestIdentityValidator_CancelledContextStopsRetrying(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewIdentityValidator(utils.IdentityConfig{
		URL:         srv.URL,
		Timeout:     time.Second,
		MaxAttempts: 3,
		Backoff:     time.Hour,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Equal(t, IdentityUnavailable, v.Validate(ctx, "u"))
	assert.Equal(t, int32(1), hits.Load())
}
