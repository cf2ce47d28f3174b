// Package platform implements repository.PlatformRepository against the
// genomics platform's JSON-over-POST API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

const (
	defaultPageSize = 1000
	defaultMaxTries = 5
)

// PlatformRepositoryImpl implementa o PlatformRepository.
type PlatformRepositoryImpl struct {
	server     string
	token      string
	httpClient *http.Client
	pageSize   int
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// Option configura o cliente.
type Option func(*PlatformRepositoryImpl)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *PlatformRepositoryImpl) { r.httpClient = c }
}

// WithPageSize sets how many results each search page asks for.
func WithPageSize(n int) Option {
	return func(r *PlatformRepositoryImpl) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithRetry sets the attempts per request and the delay before the first retry.
func WithRetry(maxTries uint, initial time.Duration) Option {
	return func(r *PlatformRepositoryImpl) {
		r.maxTries = maxTries
		r.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = 30 * initial
			return b
		}
	}
}

// NewPlatformRepository cria um cliente para o servidor da API.
func NewPlatformRepository(server, token string, opts ...Option) repository.PlatformRepository {
	r := &PlatformRepositoryImpl{
		server:     strings.TrimRight(server, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		pageSize:   defaultPageSize,
		maxTries:   defaultMaxTries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type whoamiResponse struct {
	ID string `json:"id"`
}

// Whoami valida o token e retorna o usuário autenticado.
func (r *PlatformRepositoryImpl) Whoami(ctx context.Context) (string, error) {
	var resp whoamiResponse
	if err := r.call(ctx, "/system/whoami", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

type describeFields struct {
	Fields map[string]bool `json:"fields"`
}

type findProjectsRequest struct {
	BillTo   string          `json:"billTo"`
	Describe describeFields  `json:"describe"`
	Limit    int             `json:"limit"`
	Starting json.RawMessage `json:"starting,omitempty"`
}

type projectResult struct {
	ID       string `json:"id"`
	Describe struct {
		Name      string `json:"name"`
		Created   int64  `json:"created"`
		CreatedBy struct {
			User string `json:"user"`
		} `json:"createdBy"`
	} `json:"describe"`
}

type findProjectsResponse struct {
	Results []projectResult `json:"results"`
	Next    json.RawMessage `json:"next"`
}

// ListProjects lista todos os projetos faturados para a organização.
func (r *PlatformRepositoryImpl) ListProjects(ctx context.Context, org string) ([]entity.Project, error) {
	req := findProjectsRequest{
		BillTo:   org,
		Describe: describeFields{Fields: map[string]bool{"name": true, "created": true, "createdBy": true}},
		Limit:    r.pageSize,
	}

	var projects []entity.Project
	for {
		var resp findProjectsResponse
		if err := r.call(ctx, "/system/findProjects", req, &resp); err != nil {
			return nil, err
		}
		for _, res := range resp.Results {
			projects = append(projects, entity.Project{
				ID:           res.ID,
				Name:         res.Describe.Name,
				CreatedBy:    res.Describe.CreatedBy.User,
				CreatedEpoch: res.Describe.Created,
			})
		}
		if isNull(resp.Next) {
			return projects, nil
		}
		req.Starting = resp.Next
	}
}

type findFilesRequest struct {
	Scope struct {
		Project string `json:"project"`
		Recurse bool   `json:"recurse"`
	} `json:"scope"`
	Class    string          `json:"class"`
	Describe describeFields  `json:"describe"`
	Limit    int             `json:"limit"`
	Starting json.RawMessage `json:"starting,omitempty"`
}

type fileResult struct {
	ID       string `json:"id"`
	Describe struct {
		Name          string `json:"name"`
		Size          *int64 `json:"size"`
		ArchivalState string `json:"archivalState"`
	} `json:"describe"`
}

type findFilesResponse struct {
	Results []fileResult    `json:"results"`
	Next    json.RawMessage `json:"next"`
}

// ListFiles lista os arquivos visíveis em um projeto, em todas as páginas.
func (r *PlatformRepositoryImpl) ListFiles(ctx context.Context, projectID string) ([]entity.RawFile, error) {
	var req findFilesRequest
	req.Scope.Project = projectID
	req.Scope.Recurse = true
	req.Class = "file"
	req.Describe = describeFields{Fields: map[string]bool{"name": true, "size": true, "archivalState": true}}
	req.Limit = r.pageSize

	files := make([]entity.RawFile, 0)
	for {
		var resp findFilesResponse
		if err := r.call(ctx, "/system/findDataObjects", req, &resp); err != nil {
			return nil, err
		}
		for _, res := range resp.Results {
			files = append(files, entity.RawFile{
				ID:            res.ID,
				Name:          res.Describe.Name,
				Size:          res.Describe.Size,
				ArchivalState: res.Describe.ArchivalState,
			})
		}
		if isNull(resp.Next) {
			return files, nil
		}
		req.Starting = resp.Next
	}
}

// APIError is a non-2xx answer from the platform.
type APIError struct {
	Route      string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Route, e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// call posts body to route and decodes the answer into out. Throttled
// requests and 5xx answers are retried; 4xx answers are not.
func (r *PlatformRepositoryImpl) call(ctx context.Context, route string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", route, err)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, r.post(ctx, route, payload, out)
	}, backoff.WithBackOff(r.newBackOff()), backoff.WithMaxTries(r.maxTries))
	return err
}

func (r *PlatformRepositoryImpl) post(ctx context.Context, route string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.server+route, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("%s: build request: %w", route, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("%s: %w", route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{Route: route, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("%w: %s", types.ErrAuthentication, apiErr))
		case apiErr.retryable():
			return apiErr
		default:
			return backoff.Permanent(apiErr)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("%s: decode response: %w", route, err))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
