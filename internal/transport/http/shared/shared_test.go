package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2030-01-15T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/01/2030")
	assert.Error(t, err)
}

func TestValidatorRejects(t *testing.T) {
	v := NewValidator()
	assert.Nil(t, v.OptionalDate("issueDate", " "))
	assert.NotNil(t, v.OptionalDate("expiryDate", "2030-01-01"))
	assert.Nil(t, v.OptionalDate("issueDate", "yesterday"))

	rec := httptest.NewRecorder()
	require.True(t, v.Reject(rec, "req-1"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error.Code)
	assert.Equal(t, "issueDate", body.Error.Details["field"])
	assert.Equal(t, "req-1", body.RequestID)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	assert.True(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "x", dst.Name)

	rec := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nmae":"x"}`))
	assert.False(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
