package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(fn func(c *gin.Context)) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w, c
}

func TestRespondWithSuccess(t *testing.T) {
	w, _ := respond(func(c *gin.Context) { RespondWithSuccess(c, nil) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w, _ = respond(func(c *gin.Context) { RespondWithCreated(c, gin.H{"id": "1"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"}}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	w, c := respond(func(c *gin.Context) { RespondWithError(c, errors.Forbidden("not authorized to delete this doctor")) })
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":403,"message":"not authorized to delete this doctor"}}`, w.Body.String())
	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
}

func TestRespondWithError_Validation(t *testing.T) {
	details := []map[string]string{{"field": "name", "message": "is required"}}
	w, _ := respond(func(c *gin.Context) {
		RespondWithError(c, &errors.AppError{Code: errors.ErrValidation, Message: "validation failed", Details: details})
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Details []map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, details, resp.Error.Details)
}

func TestRespondWithError_HidesUnknownErrors(t *testing.T) {
	w, _ := respond(func(c *gin.Context) { RespondWithError(c, stderrors.New("pq: password authentication failed")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
