package crudhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/httpapi"
	"github.com/hanamiya/console/pkg/listkit"
)

const (
	codeInvalidBody   = "INVALID_BODY"
	codeInvalidID     = "INVALID_ID"
	codeForbidden     = "FORBIDDEN"
	codeListFailed    = "LIST_FETCH_FAILED"
	codeMutationError = "MUTATION_FAILED"
	codeDeleteBlocked = "DELETE_BLOCKED"
	codeStatsFailed   = "STATS_FAILED"
)

// ListResponse is the payload of a list endpoint: redacted rows plus
// the column descriptors the caller's role may render, and the
// normalized params the rows reflect.
type ListResponse struct {
	Data    []listkit.Row        `json:"data"`
	Columns []listkit.Column     `json:"columns"`
	Params  listkit.SearchParams `json:"params"`
}

// EntityController exposes one entity's list screen over JSON. It
// wires a listkit controller, the entity's column set, the role
// visibility policy, and a presenter into mux routes. Rows and column
// headers are redacted independently; neither layer trusts the other.
type EntityController[T any] struct {
	basePath string
	ctrl     *listkit.Controller[T]
	columns  []listkit.Column
	policy   *listkit.VisibilityPolicy
	present  func(T) listkit.Row
	stats    listkit.StatsProvider

	enableCreate bool
	enableEdit   bool
	enableDelete bool

	pageSize    int
	maxPageSize int

	validateID func(id string) error
}

type Option[T any] func(*EntityController[T])

func WithoutCreate[T any]() Option[T] {
	return func(c *EntityController[T]) { c.enableCreate = false }
}

func WithoutEdit[T any]() Option[T] {
	return func(c *EntityController[T]) { c.enableEdit = false }
}

func WithoutDelete[T any]() Option[T] {
	return func(c *EntityController[T]) { c.enableDelete = false }
}

// WithStats exposes GET {basePath}/stats backed by the provider.
func WithStats[T any](provider listkit.StatsProvider) Option[T] {
	return func(c *EntityController[T]) { c.stats = provider }
}

// WithPageLimits overrides the default page size applied when a list
// request carries no limit, and the cap applied when it does.
// Non-positive values keep the defaults.
func WithPageLimits[T any](size, max int) Option[T] {
	return func(c *EntityController[T]) {
		if size > 0 {
			c.pageSize = size
		}
		if max > 0 {
			c.maxPageSize = max
		}
	}
}

// WithIDValidator replaces the default UUID id check.
func WithIDValidator[T any](fn func(id string) error) Option[T] {
	return func(c *EntityController[T]) { c.validateID = fn }
}

func NewEntityController[T any](
	basePath string,
	ctrl *listkit.Controller[T],
	columns []listkit.Column,
	policy *listkit.VisibilityPolicy,
	present func(T) listkit.Row,
	opts ...Option[T],
) *EntityController[T] {
	c := &EntityController[T]{
		basePath:     basePath,
		ctrl:         ctrl,
		columns:      columns,
		policy:       policy,
		present:      present,
		enableCreate: true,
		enableEdit:   true,
		enableDelete: true,
		pageSize:     25,
		maxPageSize:  100,
		validateID: func(id string) error {
			_, err := uuid.Parse(id)
			return err
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *EntityController[T]) Key() string {
	return c.basePath
}

func (c *EntityController[T]) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}/can-delete", c.CanDelete).Methods(http.MethodGet)

	if c.stats != nil {
		router.HandleFunc("/stats", c.Stats).Methods(http.MethodGet)
	}
	if c.enableCreate {
		router.HandleFunc("", c.Create).Methods(http.MethodPost)
	}
	if c.enableEdit {
		router.HandleFunc("/{id}", c.Update).Methods(http.MethodPost)
	}
	if c.enableDelete {
		router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	}
}

func (c *EntityController[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft := listkit.SearchParams{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			draft[key] = values[0]
		}
	}
	draft["limit"] = c.clampLimit(draft["limit"])

	if err := c.ctrl.UpdateParams(ctx, draft); err != nil {
		c.writeServiceError(w, codeListFailed, err)
		return
	}

	role := composables.UseRole(ctx)
	snap := c.ctrl.Snapshot()

	rows := make([]listkit.Row, 0, len(snap.Data))
	for _, item := range snap.Data {
		rows = append(rows, c.policy.Redact(role, c.present(item)))
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, &ListResponse{
		Data:    rows,
		Columns: c.policy.VisibleColumns(role, c.columns),
		Params:  snap.Params,
	})
}

// clampLimit applies the configured page-size default and cap. A
// missing or malformed limit becomes the default; an oversized one is
// capped.
func (c *EntityController[T]) clampLimit(raw string) string {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return strconv.Itoa(c.pageSize)
	}
	if n > c.maxPageSize {
		return strconv.Itoa(c.maxPageSize)
	}
	return raw
}

func (c *EntityController[T]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	created, err := c.ctrl.Add(ctx, input)
	if err != nil {
		c.writeServiceError(w, codeMutationError, err)
		return
	}

	role := composables.UseRole(ctx)
	_ = httpapi.WriteJSON(w, http.StatusCreated, c.policy.Redact(role, c.present(created)))
}

func (c *EntityController[T]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if err := c.validateID(id); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, codeInvalidID, "invalid entity id", nil)
		return
	}

	var patch T
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	updated, err := c.ctrl.Update(ctx, id, patch)
	if err != nil {
		c.writeServiceError(w, codeMutationError, err)
		return
	}

	role := composables.UseRole(ctx)
	_ = httpapi.WriteJSON(w, http.StatusOK, c.policy.Redact(role, c.present(updated)))
}

func (c *EntityController[T]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if err := c.validateID(id); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, codeInvalidID, "invalid entity id", nil)
		return
	}

	if err := c.ctrl.Delete(ctx, id); err != nil {
		c.writeServiceError(w, codeMutationError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *EntityController[T]) CanDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := c.validateID(id); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, codeInvalidID, "invalid entity id", nil)
		return
	}
	perm := c.ctrl.CanDelete(r.Context(), id)
	_ = httpapi.WriteJSON(w, http.StatusOK, perm)
}

func (c *EntityController[T]) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.Stats(r.Context())
	if err != nil {
		c.writeServiceError(w, codeStatsFailed, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, stats)
}

func (c *EntityController[T]) writeServiceError(w http.ResponseWriter, code string, err error) {
	var forbidden *authz.ForbiddenError
	if errors.As(err, &forbidden) {
		_ = httpapi.WriteError(w, http.StatusForbidden, codeForbidden, forbidden.Error(), nil)
		return
	}
	var blocked *listkit.DeleteBlockedError
	if errors.As(err, &blocked) {
		// The guard's reason is shown verbatim so the user understands
		// the required remediation.
		_ = httpapi.WriteError(w, http.StatusConflict, codeDeleteBlocked, blocked.Reason, nil)
		return
	}
	_ = httpapi.WriteError(w, http.StatusBadGateway, code, err.Error(), nil)
}
