package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	model "go_mock_panel/internal/domain/model/mock"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/utils"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"
)

var ErrNoBackendURL = errors.New("backend url is not set")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.Code, e.Body)
}

// MockClientIface reads the mock set from a backend
type MockClientIface interface {
	FetchMocks(ctx context.Context, backendURL string) ([]model.Mock, error)
}

type mockListResponse struct {
	Mocks []model.Mock `json:"mocks"`
}

// MockClient fetches GET {backendUrl}/mocks. Concurrent fetches of the same
// url share one request.
type MockClient struct {
	httpClient *http.Client
	config     *configs.BackendConfig
	sfGroup    singleflight.Group
}

var _ MockClientIface = (*MockClient)(nil)

func NewMockClient(config *configs.BackendConfig) *MockClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MockClient{
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
	}
}

// MocksURL trims trailing slashes from backendURL and appends /mocks.
func MocksURL(backendURL string) string {
	return strings.TrimRight(strings.TrimSpace(backendURL), "/") + "/mocks"
}

func (c *MockClient) FetchMocks(ctx context.Context, backendURL string) ([]model.Mock, error) {
	if strings.TrimSpace(backendURL) == "" {
		return nil, ErrNoBackendURL
	}
	url := MocksURL(backendURL)

	data, err, shared := c.sfGroup.Do(url, func() (interface{}, error) {
		var mocks []model.Mock
		err := retry.Do(
			func() error {
				var err error
				mocks, err = c.fetchOnce(ctx, url)
				return err
			},
			retry.Attempts(uint(max(c.config.RetryCount, 1))),
			retry.Delay(c.config.RetryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.Context(ctx),
		)
		return mocks, err
	})
	if err != nil {
		return nil, err
	}
	if shared {
		utils.GetLogger().Debugf("shared in-flight fetch of %s", url)
	}
	return data.([]model.Mock), nil
}

func (c *MockClient) fetchOnce(ctx context.Context, url string) ([]model.Mock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(statusErr)
		}
		return nil, statusErr
	}

	var result mockListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to decode mocks from %s: %w", url, err))
	}
	if result.Mocks == nil {
		result.Mocks = []model.Mock{}
	}
	utils.GetLogger().Debugf("fetched %d mocks from %s", len(result.Mocks), url)
	return result.Mocks, nil
}
