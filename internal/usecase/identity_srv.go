package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reserveit/pkg/utils"

	"go.uber.org/zap"
)

type IdentityStatus int

const (
	IdentityValid IdentityStatus = iota
	IdentityInvalid
	IdentityUnavailable
)

func (s IdentityStatus) String() string {
	switch s {
	case IdentityValid:
		return "valid"
	case IdentityInvalid:
		return "invalid"
	default:
		return "unavailable"
	}
}

// IdentityValidator asks the identity authority whether a user exists.
type IdentityValidator interface {
	Validate(ctx context.Context, userID string) IdentityStatus
}

type identityHTTPValidator struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	log         *zap.Logger
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

func NewIdentityValidator(config utils.IdentityConfig, log *zap.Logger) IdentityValidator {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &identityHTTPValidator{
		baseURL:     strings.TrimRight(config.URL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: attempts,
		backoff:     config.Backoff,
		log:         log.With(zap.String("service", "identity")),
	}
}

// Validate retries transient failures with a fixed backoff. A definite answer
// from the authority is returned immediately.
func (v *identityHTTPValidator) Validate(ctx context.Context, userID string) IdentityStatus {
	for attempt := 1; attempt <= v.maxAttempts; attempt++ {
		status, err := v.check(ctx, userID)
		if err == nil {
			return status
		}

		v.log.Warn("Identity authority call failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", v.maxAttempts),
		)

		if attempt == v.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return IdentityUnavailable
		case <-time.After(v.backoff):
		}
	}

	return IdentityUnavailable
}

// check performs one call. A non-nil error means the attempt is retryable.
func (v *identityHTTPValidator) check(ctx context.Context, userID string) (IdentityStatus, error) {
	endpoint := v.baseURL + "/validate/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return IdentityUnavailable, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return IdentityUnavailable, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return IdentityUnavailable, fmt.Errorf("identity authority unexpected status: %d", resp.StatusCode)
	}

	// any definite non-2xx answer rejects the user, whatever the body says
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return IdentityInvalid, nil
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return IdentityUnavailable, fmt.Errorf("decode identity response: %w", err)
	}

	if body.Valid {
		return IdentityValid, nil
	}
	return IdentityInvalid, nil
}
