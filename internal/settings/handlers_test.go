package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	value float64
}

func (m *memStore) BaseCoefficient(context.Context) (float64, error) {
	if m.value <= 0 {
		return DefaultBaseCoefficient, nil
	}
	return m.value, nil
}

func (m *memStore) SetBaseCoefficient(_ context.Context, value float64) error {
	if value <= 0 {
		return ErrNonPositive
	}
	m.value = value
	return nil
}

func TestGetCoefficientDefaultsWhenUnset(t *testing.T) {
	h := &Handler{Store: &memStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/settings/coefficient", nil)
	rec := httptest.NewRecorder()
	h.GetCoefficient(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Coefficient float64 `json:"coefficient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, DefaultBaseCoefficient, resp.Coefficient)
}

func TestPutCoefficientRoundTrip(t *testing.T) {
	store := &memStore{}
	h := &Handler{Store: store}

	req := httptest.NewRequest(http.MethodPut, "/api/settings/coefficient", strings.NewReader(`{"coefficient":2.7}`))
	rec := httptest.NewRecorder()
	h.PutCoefficient(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.7, store.value)

	req = httptest.NewRequest(http.MethodGet, "/api/settings/coefficient", nil)
	rec = httptest.NewRecorder()
	h.GetCoefficient(rec, req)

	var resp struct {
		Coefficient float64 `json:"coefficient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2.7, resp.Coefficient)
}

func TestPutCoefficientRejectsNonPositive(t *testing.T) {
	store := &memStore{value: 2.3}
	h := &Handler{Store: store}

	for _, body := range []string{`{"coefficient":0}`, `{"coefficient":-1.5}`, `{}`} {
		req := httptest.NewRequest(http.MethodPut, "/api/settings/coefficient", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.PutCoefficient(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Equal(t, 2.3, store.value)
}

func TestPutCoefficientRejectsMalformedBody(t *testing.T) {
	h := &Handler{Store: &memStore{}}

	req := httptest.NewRequest(http.MethodPut, "/api/settings/coefficient", strings.NewReader(`{"coefficient":`))
	rec := httptest.NewRecorder()
	h.PutCoefficient(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
