package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/stretchr/testify/require"
)

const testSessionID = "0b8f8c1e-5a7d-4d7e-9a61-2a3c4b5d6e7f"

// serve sends a request with an optional JSON body and the test session.
func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// sessionRouter returns a router that binds requests to a storefront session.
func sessionRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.SessionID())
	return router
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
