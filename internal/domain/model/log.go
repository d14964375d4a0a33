package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names a staff or customer action kept in the audit trail.
type AuditAction string

// Audited actions.
const (
	ActionLogin          AuditAction = "login"
	ActionLoginFailed    AuditAction = "login_failed"
	ActionLogout         AuditAction = "logout"
	ActionOrderSubmit    AuditAction = "order_submit"
	ActionOrderStatus    AuditAction = "order_status"
	ActionSettingsUpdate AuditAction = "settings_update"
	ActionMenuUpsert     AuditAction = "menu_upsert"
	ActionMenuSetActive  AuditAction = "menu_set_active"
	ActionMenuReprice    AuditAction = "menu_reprice"
)

var auditActions = map[AuditAction]bool{
	ActionLogin: true, ActionLoginFailed: true, ActionLogout: true,
	ActionOrderSubmit: true, ActionOrderStatus: true, ActionSettingsUpdate: true,
	ActionMenuUpsert: true, ActionMenuSetActive: true, ActionMenuReprice: true,
}

// Valid reports whether a is a known audit action.
func (a AuditAction) Valid() bool {
	return auditActions[a]
}

// LogEntry is a persisted request log or audit record. Request logs leave
// ActionType empty.
type LogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Level      string             `bson:"level" json:"level"`
	Message    string             `bson:"message" json:"message"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SessionID  string             `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Method     string             `bson:"method,omitempty" json:"method,omitempty"`
	Path       string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	UserID     string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserEmail  string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	ActionType AuditAction        `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields     map[string]any     `bson:"fields,omitempty" json:"fields,omitempty"`
} // @name LogEntry

// LogQueryOptions filters stored log entries. Zero values match everything.
type LogQueryOptions struct {
	RequestID  string
	SessionID  string
	Level      string
	Method     string
	Path       string
	UserID     string
	UserEmail  string
	ActionType AuditAction
	// AuditOnly restricts results to entries with an action type.
	AuditOnly bool
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}
