package http

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func auditRouter(logs service.LoggingService) *gin.Engine {
	h := NewAuditHandler(logs, testLocation)
	router := sessionRouter()
	router.GET("/admin/audit", h.List)
	return router
}

func TestAuditHandler_List(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, testLocation)
	end := time.Date(2026, 11, 3, 0, 0, 0, 0, testLocation).Add(-time.Nanosecond)

	tests := []struct {
		name       string
		query      string
		setup      func(*mocks.MockLoggingService)
		wantStatus int
		wantTotal  int64
	}{
		{
			name:  "filters by action and date in business time",
			query: "?action=order_status&from=2026-11-01&to=2026-11-02&limit=10",
			setup: func(m *mocks.MockLoggingService) {
				m.On("QueryLogs", mock.Anything, mock.MatchedBy(func(o model.LogQueryOptions) bool {
					return o.ActionType == model.ActionOrderStatus && o.AuditOnly && o.Limit == 10 &&
						o.StartTime.Equal(start) && o.EndTime.Equal(end)
				})).Return([]model.LogEntry{{ActionType: model.ActionOrderStatus, UserEmail: "owner@example.com"}}, nil)
				m.On("CountLogs", mock.Anything, mock.MatchedBy(func(o model.LogQueryOptions) bool {
					return o.ActionType == model.ActionOrderStatus && o.Limit == 0
				})).Return(int64(31), nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  31,
		},
		{
			name:  "defaults page size",
			query: "?session_id=" + testSessionID,
			setup: func(m *mocks.MockLoggingService) {
				m.On("QueryLogs", mock.Anything, mock.MatchedBy(func(o model.LogQueryOptions) bool {
					return o.SessionID == testSessionID && o.Limit == 50
				})).Return(nil, nil)
				m.On("CountLogs", mock.Anything, mock.Anything).Return(int64(0), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown action",
			query:      "?action=order.submit",
			setup:      func(m *mocks.MockLoggingService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "reversed range",
			query:      "?from=2026-11-05&to=2026-11-01",
			setup:      func(m *mocks.MockLoggingService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "log store failure",
			query: "",
			setup: func(m *mocks.MockLoggingService) {
				m.On("QueryLogs", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := new(mocks.MockLoggingService)
			tt.setup(logs)

			w := serve(auditRouter(logs), http.MethodGet, "/admin/audit"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got AuditPage
				decodeSuccess(t, w, &got)
				assert.NotNil(t, got.Entries)
				assert.Equal(t, tt.wantTotal, got.Total)
			}
			logs.AssertExpectations(t)
		})
	}
}

func TestAuditHandler_NotConfigured(t *testing.T) {
	w := serve(auditRouter(nil), http.MethodGet, "/admin/audit", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
