package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{auth.ErrLoginIDExists, http.StatusConflict, CodeLoginIDExists},
		{fmt.Errorf("load: %w", model.ErrMemberNotFound), http.StatusNotFound, CodeMemberNotFound},
		{NewInvalidRequestError("loginId is required"), http.StatusBadRequest, CodeInvalidRequest},
		{NewForbiddenError(), http.StatusForbidden, CodeForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: connection refused"))

	assert.NotContains(t, rr.Body.String(), "redis")
}
