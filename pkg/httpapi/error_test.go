package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/httpapi"
)

func TestWriteJSON_SetsStatusAndContentType(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, httpapi.WriteJSON(rec, http.StatusCreated, map[string]string{"id": "x"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":"x"}`, rec.Body.String())
}

func TestWriteJSON_NilPayloadSendsHeadersOnly(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, httpapi.WriteJSON(rec, http.StatusNoContent, nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestWriteError_EnvelopeShape(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := httpapi.WriteError(rec, http.StatusConflict, "DELETE_BLOCKED",
		"group still has active teams", map[string]string{"entity": "group"})
	require.NoError(t, err)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "DELETE_BLOCKED", envelope.Code)
	require.Equal(t, "group still has active teams", envelope.Message)
	require.Equal(t, "group", envelope.Meta["entity"])
}

func TestWriteError_OmitsEmptyMeta(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, httpapi.WriteError(rec, http.StatusForbidden, "FORBIDDEN", "denied", nil))
	require.NotContains(t, rec.Body.String(), "meta")
}
