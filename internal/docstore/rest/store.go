// Package rest consumes an opaque document-CRUD HTTP API. The wire protocol
// is collections of JSON documents under /collections/{path}/documents; the
// service's own auth and storage details stay behind it.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

// Config carries the client settings, usually from store.rest configuration.
type Config struct {
	BaseURL       string
	APIKey        string
	RetryAttempts uint
	Timeout       time.Duration
}

// Store implements docstore.Store against the remote document service.
type Store struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

var _ docstore.Store = (*Store)(nil)

// NewStore creates a Store from its config.
func NewStore(cfg Config) *Store {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Store{
		httpClient:       client,
		maxRetryAttempts: cfg.RetryAttempts,
	}
}

func (s *Store) Close() error {
	return s.httpClient.Close()
}

type documentPayload struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.status, e.body)
}

// isRetryableError reports whether a failed call is worth another attempt:
// transport errors, rate limiting and server errors are; other HTTP status
// codes are permanent.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if statusErr, ok := err.(*statusError); ok {
		return statusErr.status == http.StatusTooManyRequests || statusErr.status >= http.StatusInternalServerError
	}
	return true
}

func (s *Store) do(ctx context.Context, call func() error) error {
	return retry.Do(
		func() error {
			if err := call(); err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxRetryAttempts+1),
		retry.DelayType(retry.BackOffDelay),
	)
}

func checkResponse(response *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if response.IsError() {
		return &statusError{status: response.StatusCode(), body: response.String()}
	}
	return nil
}

func collectionURL(path string) string {
	return "/collections/" + url.PathEscape(path) + "/documents"
}

func documentURL(path, id string) string {
	return collectionURL(path) + "/" + url.PathEscape(id)
}

func (s *Store) Create(ctx context.Context, path string, data map[string]any) (string, error) {
	var created documentPayload
	err := s.do(ctx, func() error {
		response, err := s.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"data": data}).
			SetResult(&created).
			Post(collectionURL(path))
		return checkResponse(response, err)
	})
	if err != nil {
		return "", fmt.Errorf("POST %s > %w", collectionURL(path), err)
	}
	return created.ID, nil
}

func (s *Store) CreateOrReplace(ctx context.Context, path, id string, data map[string]any) error {
	err := s.do(ctx, func() error {
		response, err := s.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"data": data, "merge": true}).
			Put(documentURL(path, id))
		return checkResponse(response, err)
	})
	if err != nil {
		return fmt.Errorf("PUT %s > %w", documentURL(path, id), err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path, id string, partial map[string]any) error {
	// The retry wrapper obscures the cause, so a missing document is
	// flagged inside the attempt.
	notFound := false
	err := s.do(ctx, func() error {
		response, err := s.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"data": partial}).
			Patch(documentURL(path, id))
		if err := checkResponse(response, err); err != nil {
			if statusErr, ok := err.(*statusError); ok && statusErr.status == http.StatusNotFound {
				notFound = true
			}
			return err
		}
		return nil
	})
	if err != nil {
		if notFound {
			return fmt.Errorf("PATCH %s > %w", documentURL(path, id), docstore.ErrNotFound)
		}
		return fmt.Errorf("PATCH %s > %w", documentURL(path, id), err)
	}
	return nil
}

func (s *Store) FindByField(ctx context.Context, path, field string, value any) ([]docstore.Document, error) {
	return s.find(ctx, path, map[string]string{
		"field": field,
		"value": fmt.Sprintf("%v", value),
	})
}

func (s *Store) FindByDateRange(ctx context.Context, path, field, from, until string) ([]docstore.Document, error) {
	params := map[string]string{
		"orderBy": field,
		"order":   "desc",
	}
	if from != "" {
		params["from"] = from
	}
	if until != "" {
		params["until"] = until
	}
	return s.find(ctx, path, params)
}

func (s *Store) FindAll(ctx context.Context, path string) ([]docstore.Document, error) {
	return s.find(ctx, path, nil)
}

func (s *Store) CreateInSubcollection(ctx context.Context, parentPath, parentID, name string, data map[string]any, optionalID string) (string, error) {
	path := docstore.SubcollectionPath(parentPath, parentID, name)
	if optionalID == "" {
		return s.Create(ctx, path, data)
	}
	if err := s.CreateOrReplace(ctx, path, optionalID, data); err != nil {
		return "", err
	}
	return optionalID, nil
}

func (s *Store) find(ctx context.Context, path string, params map[string]string) ([]docstore.Document, error) {
	var payload []documentPayload
	err := s.do(ctx, func() error {
		request := s.httpClient.R().
			SetContext(ctx).
			SetResult(&payload)
		if len(params) > 0 {
			request.SetQueryParams(params)
		}
		response, err := request.Get(collectionURL(path))
		return checkResponse(response, err)
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s > %w", collectionURL(path), err)
	}

	docs := make([]docstore.Document, len(payload))
	for i, item := range payload {
		docs[i] = docstore.Document{ID: item.ID, Data: item.Data}
	}
	return docs, nil
}
