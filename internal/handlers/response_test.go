package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
)

func TestRespondAppErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: apperr.NotFoundf("post x"), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "unauthenticated", err: apperr.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantCode: "unauthenticated"},
		{name: "upstream", err: apperr.ErrUpstreamUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "upstream_unavailable"},
		{name: "conflict", err: apperr.ErrTransactionConflict, wantStatus: http.StatusConflict, wantCode: "conflict"},
		{name: "fallback", err: errors.New("bad payload"), wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondAppError(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, w.Code)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code: want=%q got=%q", tc.wantCode, envelope.Error.Code)
			}
			if envelope.Error.Message == "" {
				t.Fatalf("message must not be empty")
			}
		})
	}
}
