package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-collab-api/internal/metrics"
)

// ErrUserNotFound is returned when the directory has no user for the given key
var ErrUserNotFound = errors.New("user not found")

// DirectoryUser is the narrow view of a user this service needs
type DirectoryUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// UserClient defines the interface for user-directory lookups
type UserClient interface {
	// FindUserByUsername resolves a username to a directory user
	FindUserByUsername(ctx context.Context, username string) (*DirectoryUser, error)
	// FindUserByEmail resolves an email to a directory user
	FindUserByEmail(ctx context.Context, email string) (*DirectoryUser, error)
}

// userClient implements UserClient against the user service's internal API
type userClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewUserClient creates a new instance of UserClient
func NewUserClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) UserClient {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &userClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

// FindUserByUsername resolves a username via GET /api/internal/users/by-username/{username}
func (c *userClient) FindUserByUsername(ctx context.Context, username string) (*DirectoryUser, error) {
	endpoint := fmt.Sprintf("%s/api/internal/users/by-username/%s", c.baseURL, url.PathEscape(username))
	return c.fetchUser(ctx, endpoint, "/users/by-username")
}

// FindUserByEmail resolves an email via GET /api/internal/users/by-email/{email}
func (c *userClient) FindUserByEmail(ctx context.Context, email string) (*DirectoryUser, error) {
	endpoint := fmt.Sprintf("%s/api/internal/users/by-email/%s", c.baseURL, url.PathEscape(email))
	return c.fetchUser(ctx, endpoint, "/users/by-email")
}

func (c *userClient) fetchUser(ctx context.Context, endpoint, metricEndpoint string) (*DirectoryUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user directory request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(metricEndpoint, http.MethodGet, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Warn("User directory request failed",
			zap.String("endpoint", metricEndpoint),
			zap.Error(err),
		)
		return nil, fmt.Errorf("user directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope struct {
			Data DirectoryUser `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("failed to decode user directory response: %w", err)
		}
		return &envelope.Data, nil
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		c.logger.Warn("User directory returned unexpected status",
			zap.String("endpoint", metricEndpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}
}
