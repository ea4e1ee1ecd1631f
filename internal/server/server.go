package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"taskhub/internal/app"
	"taskhub/internal/remote"
	"taskhub/internal/tasks"
)

// Config for the HTTP API handler.
type Config struct {
	App      *app.App
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"task 42 not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the TaskHub API.
func New(cfg Config) (http.Handler, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("TaskHub API", "0.1.0"))
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerTasks(group, cfg.App)
	registerBrowse(group, cfg.App)
	registerTheme(group, cfg.App)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body:   apiErrorBody{Code: code, Message: message, Details: details},
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadGateway:
		return "upstream_unavailable"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerTasks(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, input *struct {
		Filter string `query:"filter" enum:"all,active,completed" default:"all"`
	}) (*struct {
		Body TaskListResponse `json:"body"`
	}, error) {
		mode := tasks.FilterMode(input.Filter)
		if input.Filter == "" {
			mode = tasks.FilterAll
		}
		if !tasks.ValidFilter(mode) {
			return nil, newAPIError(http.StatusBadRequest, "", "unknown filter "+input.Filter, nil)
		}
		all := a.Tasks.All()
		return &struct {
			Body TaskListResponse `json:"body"`
		}{Body: TaskListResponse{
			Items:  tasks.Filter(all, mode),
			Counts: tasks.Counts(all),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body taskBody `json:"body"`
	}, error) {
		t, ok, err := a.Tasks.Add(ctx, input.Body.Text, input.Body.Priority)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "", err.Error(), nil)
		}
		if !ok {
			// The store treats empty text as a silent no-op; over HTTP that
			// becomes an explicit rejection.
			return nil, newAPIError(http.StatusBadRequest, "", "text is required", nil)
		}
		return &struct {
			Body taskBody `json:"body"`
		}{Body: taskBody{Task: t}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/toggle",
		Summary:     "Toggle task completion",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body taskBody `json:"body"`
	}, error) {
		t, ok, err := a.Tasks.Toggle(ctx, input.ID)
		if err != nil {
			return nil, newAPIError(http.StatusInternalServerError, "", err.Error(), nil)
		}
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "", "task not found", nil)
		}
		return &struct {
			Body taskBody `json:"body"`
		}{Body: taskBody{Task: t}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete task",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct{}, error) {
		_, ok, err := a.Tasks.Delete(ctx, input.ID)
		if err != nil {
			return nil, newAPIError(http.StatusInternalServerError, "", err.Error(), nil)
		}
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "", "task not found", nil)
		}
		return &struct{}{}, nil
	})
}

func registerBrowse(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "browse",
		Method:      http.MethodGet,
		Path:        "/browse/{kind}",
		Summary:     "Browse remote records with search and pagination",
		Errors:      []int{http.StatusBadRequest, http.StatusBadGateway},
	}, func(ctx context.Context, input *struct {
		Kind   string `path:"kind" enum:"users,posts"`
		Search string `query:"search"`
		Page   int    `query:"page" default:"1" minimum:"1"`
	}) (*struct {
		Body BrowsePage `json:"body"`
	}, error) {
		kind := remote.Kind(input.Kind)
		if !remote.ValidKind(kind) {
			return nil, newAPIError(http.StatusBadRequest, "", "unknown resource kind "+input.Kind, nil)
		}
		if err := a.Cache.EnsureLoaded(ctx, kind); err != nil && a.Cache.Len(kind) == 0 {
			return nil, newAPIError(http.StatusBadGateway, "", err.Error(), nil)
		}
		page := input.Page
		if page < 1 {
			page = 1
		}
		body := BrowsePage{
			Kind:  input.Kind,
			Page:  page,
			Total: a.Cache.Len(kind),
		}
		pageSize := a.Config.Browse.PageSize
		switch kind {
		case remote.KindUsers:
			filtered := remote.FilterUsers(a.Cache.Users(), input.Search)
			body.Matches = len(filtered)
			body.TotalPages = remote.TotalPages(len(filtered), pageSize)
			body.Users = remote.Page(filtered, page, pageSize)
		case remote.KindPosts:
			filtered := remote.FilterPosts(a.Cache.Posts(), input.Search)
			body.Matches = len(filtered)
			body.TotalPages = remote.TotalPages(len(filtered), pageSize)
			body.Posts = remote.Page(filtered, page, pageSize)
		}
		return &struct {
			Body BrowsePage `json:"body"`
		}{Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-browse",
		Method:      http.MethodPost,
		Path:        "/browse/{kind}/refresh",
		Summary:     "Re-fetch a remote collection",
		Errors:      []int{http.StatusBadRequest, http.StatusBadGateway},
	}, func(ctx context.Context, input *struct {
		Kind string `path:"kind" enum:"users,posts"`
	}) (*struct {
		Body RefreshResponse `json:"body"`
	}, error) {
		kind := remote.Kind(input.Kind)
		if !remote.ValidKind(kind) {
			return nil, newAPIError(http.StatusBadRequest, "", "unknown resource kind "+input.Kind, nil)
		}
		if err := a.Cache.Refresh(ctx, kind); err != nil {
			return nil, newAPIError(http.StatusBadGateway, "", err.Error(), nil)
		}
		return &struct {
			Body RefreshResponse `json:"body"`
		}{Body: RefreshResponse{Kind: input.Kind, Count: a.Cache.Len(kind)}}, nil
	})
}

func registerTheme(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-theme",
		Method:      http.MethodGet,
		Path:        "/theme",
		Summary:     "Current theme",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body ThemeResponse `json:"body"`
	}, error) {
		return &struct {
			Body ThemeResponse `json:"body"`
		}{Body: ThemeResponse{Theme: a.Theme.Current(ctx)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-theme",
		Method:      http.MethodPost,
		Path:        "/theme/toggle",
		Summary:     "Toggle dark mode",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body ThemeResponse `json:"body"`
	}, error) {
		next, err := a.Theme.Toggle(ctx)
		if err != nil {
			return nil, newAPIError(http.StatusInternalServerError, "", err.Error(), nil)
		}
		return &struct {
			Body ThemeResponse `json:"body"`
		}{Body: ThemeResponse{Theme: next}}, nil
	})
}
