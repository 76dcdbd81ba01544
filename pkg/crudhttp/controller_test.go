package crudhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/crudhttp"
	"github.com/hanamiya/console/pkg/listkit"
)

type patient struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	PostalCode string `json:"postalCode"`
	Status     string `json:"status"`
}

type patientService struct {
	mu       sync.Mutex
	rows     []patient
	listErr  error
	removeFn func(id string) error
}

func (s *patientService) List(ctx context.Context, params listkit.SearchParams) ([]patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]patient, 0, len(s.rows))
	for _, row := range s.rows {
		if status, ok := params[listkit.KeyStatus]; ok && row.Status != status {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *patientService) Create(ctx context.Context, input patient) (patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	input.ID = uuid.New().String()
	s.rows = append(s.rows, input)
	return input, nil
}

func (s *patientService) Update(ctx context.Context, id string, patch patient) (patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			patch.ID = id
			s.rows[i] = patch
			return patch, nil
		}
	}
	return patient{}, errors.New("not found")
}

func (s *patientService) Remove(ctx context.Context, id string) error {
	if s.removeFn != nil {
		if err := s.removeFn(id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func patientColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "nickname", Label: "Nickname"},
		{Key: "postalCode", Label: "Postal code"},
		{Key: "status", Label: "Status"},
	}
}

func patientPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "nickname", "postalCode", "status").
		Allow(listkit.RoleOperator, "id", "nickname", "status")
}

func presentPatient(p patient) listkit.Row {
	return listkit.Row{
		"id":         p.ID,
		"nickname":   p.Nickname,
		"postalCode": p.PostalCode,
		"status":     p.Status,
	}
}

func newPatientRouter(svc *patientService, guard listkit.GuardEvaluator) *mux.Router {
	opts := []listkit.Option[patient]{}
	if guard != nil {
		opts = append(opts, listkit.WithDeleteGuard[patient](guard))
	}
	ctrl := crudhttp.NewEntityController(
		"/patients",
		listkit.NewController("patient", svc, opts...),
		patientColumns(),
		patientPolicy(),
		presentPatient,
	)
	r := mux.NewRouter()
	ctrl.Register(r)
	return r
}

func doAs(router *mux.Router, role listkit.Role, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(composables.WithRole(req.Context(), role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEntityController_ListRedactsByRole(t *testing.T) {
	t.Parallel()

	svc := &patientService{rows: []patient{
		{ID: uuid.New().String(), Nickname: "hinata", PostalCode: "150-0001", Status: "active"},
	}}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleOperator, http.MethodGet, "/patients")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp crudhttp.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Contains(t, resp.Data[0], "nickname")
	require.NotContains(t, resp.Data[0], "postalCode")

	keys := make([]string, 0, len(resp.Columns))
	for _, col := range resp.Columns {
		keys = append(keys, col.Key)
	}
	require.NotContains(t, keys, "postalCode")
}

func TestEntityController_ListUnknownRoleSeesNothing(t *testing.T) {
	t.Parallel()

	svc := &patientService{rows: []patient{
		{ID: uuid.New().String(), Nickname: "hinata", Status: "active"},
	}}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleUnknown, http.MethodGet, "/patients")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp crudhttp.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Empty(t, resp.Data[0])
	require.Empty(t, resp.Columns)
}

func TestEntityController_ListAppliesStatusFilter(t *testing.T) {
	t.Parallel()

	svc := &patientService{rows: []patient{
		{ID: uuid.New().String(), Nickname: "hinata", Status: "active"},
		{ID: uuid.New().String(), Nickname: "sora", Status: "inactive"},
	}}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleSystemAdmin, http.MethodGet, "/patients?status=inactive")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp crudhttp.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "sora", resp.Data[0]["nickname"])

	// The sentinel resets the filter.
	rec = doAs(router, listkit.RoleSystemAdmin, http.MethodGet, "/patients?status=all")
	resp = crudhttp.ListResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.NotContains(t, resp.Params, listkit.KeyStatus)
}

func TestEntityController_DeleteBlockedMapsTo409(t *testing.T) {
	t.Parallel()

	id := uuid.New().String()
	svc := &patientService{
		rows: []patient{{ID: id, Nickname: "hinata", Status: "active"}},
		removeFn: func(string) error {
			return &listkit.DeleteBlockedError{Reason: "user must be inactive before deletion"}
		},
	}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleSystemAdmin, http.MethodDelete, "/patients/"+id)
	require.Equal(t, http.StatusConflict, rec.Code)

	var envelope struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "DELETE_BLOCKED", envelope.Code)
	require.Equal(t, "user must be inactive before deletion", envelope.Message)
}

func TestEntityController_CanDeleteInvalidID(t *testing.T) {
	t.Parallel()

	svc := &patientService{}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleSystemAdmin, http.MethodGet, "/patients/not-a-uuid/can-delete")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type denyGuard struct{}

func (denyGuard) Evaluate(ctx context.Context, id string) listkit.DeletePermission {
	return listkit.DeletePermission{CanDelete: false, Reason: "entity not found"}
}

func TestEntityController_CanDeleteVerdictPassthrough(t *testing.T) {
	t.Parallel()

	svc := &patientService{}
	router := newPatientRouter(svc, denyGuard{})

	rec := doAs(router, listkit.RoleSystemAdmin, http.MethodGet, "/patients/"+uuid.New().String()+"/can-delete")
	require.Equal(t, http.StatusOK, rec.Code)

	var perm listkit.DeletePermission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perm))
	require.False(t, perm.CanDelete)
	require.Equal(t, listkit.ReasonNotFound, perm.Reason)
}

func TestEntityController_ListFailureMapsTo502(t *testing.T) {
	t.Parallel()

	svc := &patientService{listErr: errors.New("backend down")}
	router := newPatientRouter(svc, nil)

	rec := doAs(router, listkit.RoleSystemAdmin, http.MethodGet, "/patients")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEntityController_ListAppliesPageLimits(t *testing.T) {
	t.Parallel()

	svc := &patientService{}
	ctrl := crudhttp.NewEntityController(
		"/patients",
		listkit.NewController[patient]("patient", svc),
		patientColumns(),
		patientPolicy(),
		presentPatient,
		crudhttp.WithPageLimits[patient](2, 3),
	)
	router := mux.NewRouter()
	ctrl.Register(router)

	cases := []struct {
		target string
		want   string
	}{
		{"/patients", "2"},          // default page size when absent
		{"/patients?limit=10", "3"}, // capped at the maximum
		{"/patients?limit=abc", "2"},
		{"/patients?limit=-1", "2"},
		{"/patients?limit=3", "3"},
	}
	for _, tc := range cases {
		rec := doAs(router, listkit.RoleSystemAdmin, http.MethodGet, tc.target)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp crudhttp.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, tc.want, resp.Params["limit"], tc.target)
	}
}
