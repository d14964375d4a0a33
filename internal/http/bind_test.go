package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "manual miles", body: `{"miles": 12}`},
		{name: "address only", body: `{"address": {"street": "500 Elm St", "zip": "75201"}}`},
		{name: "neither miles nor address", body: `{}`, wantErr: "miles"},
		{name: "wrong type", body: `{"miles": "twelve"}`, wantErr: "cannot unmarshal"},
		{name: "empty body", body: ``, wantErr: "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(http.MethodPost, "/", tt.body)

			req, err := bindJSON[dto.DeliveryQuoteRequest](c)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, req)
		})
	}
}

func TestBindQuery(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/slots?method=delivery&date=2026-10-19&grand_total=650", "")
	q, err := bindQuery[dto.SlotsRequest](c)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", q.Date)
	assert.Equal(t, 650.0, q.GrandTotal)

	c, _ = testContext(http.MethodGet, "/slots?method=drone&date=2026-10-19", "")
	_, err = bindQuery[dto.SlotsRequest](c)
	assert.Error(t, err)

	c, _ = testContext(http.MethodGet, "/audit?action=refund", "")
	_, err = bindQuery[dto.AuditLogQuery](c)
	assert.ErrorContains(t, err, "unknown audit action", "Validate runs after binding")
}
