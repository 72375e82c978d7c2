// Package pokeapi is a rate limited PokéAPI v2 client.
package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/rootasjey/pokestats/internal/errs"
)

var _ Client = (*HTTPClient)(nil)

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetryAttempts  uint
	RetryDelay        time.Duration
	ListLimit         int
}

type HTTPClient struct {
	httpClient       *resty.Client
	limiter          *rate.Limiter
	maxRetryAttempts uint
	retryDelay       time.Duration
	listLimit        int
}

func NewClient(opts Options) *HTTPClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "pokestats/1.5")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return newClient(client, opts)
}

func newClient(httpClient *resty.Client, opts Options) *HTTPClient {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 200 * time.Millisecond
	}
	listLimit := opts.ListLimit
	if listLimit <= 0 {
		listLimit = 2000
	}

	return &HTTPClient{
		httpClient:       httpClient,
		limiter:          rate.NewLimiter(limit, burst),
		maxRetryAttempts: opts.MaxRetryAttempts,
		retryDelay:       retryDelay,
		listLimit:        listLimit,
	}
}

func (client *HTTPClient) Close() error {
	return client.httpClient.Close()
}

// responseError is a non 2xx upstream answer.
type responseError struct {
	statusCode int
	body       string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.statusCode, e.body)
}

func (e *responseError) Unwrap() error {
	if e.statusCode == http.StatusNotFound {
		return errs.ErrNotFound
	}
	return errs.ErrUpstreamUnavailable
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var respErr *responseError
	if errors.As(err, &respErr) {
		return respErr.statusCode == http.StatusTooManyRequests || respErr.statusCode >= http.StatusInternalServerError
	}

	// Transport level failures (refused connections, resets, timeouts)
	return true
}

// Pokemon fetches one Pokémon by id or by name.
func (client *HTTPClient) Pokemon(ctx context.Context, ref Ref) (*Pokemon, error) {
	var result Pokemon
	params := map[string]string{"ref": ref.String()}
	if err := client.get(ctx, "/pokemon/{ref}", params, nil, &result); err != nil {
		return nil, fmt.Errorf("client.get(pokemon %s) > %w", ref, err)
	}
	return &result, nil
}

// Types fetches every named type, in the order of names.
func (client *HTTPClient) Types(ctx context.Context, names []string) ([]Type, error) {
	types := make([]Type, 0, len(names))
	for _, name := range names {
		var result Type
		params := map[string]string{"name": name}
		if err := client.get(ctx, "/type/{name}", params, nil, &result); err != nil {
			return nil, fmt.Errorf("client.get(type %s) > %w", name, err)
		}
		types = append(types, result)
	}
	return types, nil
}

// PokemonList fetches the whole Pokémon list in one page.
func (client *HTTPClient) PokemonList(ctx context.Context) (*PokemonList, error) {
	var result PokemonList
	query := map[string]string{"limit": strconv.Itoa(client.listLimit)}
	if err := client.get(ctx, "/pokemon", nil, query, &result); err != nil {
		return nil, fmt.Errorf("client.get(pokemon list) > %w", err)
	}
	return &result, nil
}

// get requests path, a template whose {placeholders} are filled from params
// as escaped path segments.
func (client *HTTPClient) get(ctx context.Context, path string, params, query map[string]string, result any) error {
	return retry.Do(
		func() error {
			err := client.doGet(ctx, path, params, query, result)
			if err != nil && !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying PokeAPI call",
				"attempt", n+1,
				"path", path,
				"error", err)
		}),
	)
}

func (client *HTTPClient) doGet(ctx context.Context, path string, params, query map[string]string, result any) error {
	if err := client.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter.Wait > %w", err)
	}

	request := client.httpClient.R().
		SetContext(ctx).
		SetResult(result)
	if len(params) > 0 {
		request.SetPathParams(params)
	}
	if len(query) > 0 {
		request.SetQueryParams(query)
	}

	response, err := request.Get(path)
	if err != nil {
		return fmt.Errorf("httpClient.Get(%s) > %w: %w", path, errs.ErrUpstreamUnavailable, err)
	}
	if response.IsError() {
		return &responseError{statusCode: response.StatusCode(), body: response.String()}
	}
	return nil
}
