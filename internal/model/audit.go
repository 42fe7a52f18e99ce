package model

import "time"

// AuditEntry is an append-only record of a security-relevant outcome.
// Entries are never updated or deleted; UserID is NULL for anonymous actors.
type AuditEntry struct {
	ID        int64
	UserID    *int64
	Action    string
	Status    string
	Message   string
	Timestamp time.Time
}

// Audit statuses.
const (
	AuditSuccess = "SUCCESS"
	AuditError   = "ERROR"
	AuditWarning = "WARNING"
	AuditInfo    = "INFO"
)

// Audit action labels.
const (
	ActionLogin                = "Login"
	ActionLogout               = "Logout"
	ActionRenewToken           = "Renew Token"
	ActionPasswordResetRequest = "Password Reset Request"
	ActionPasswordResetConfirm = "Password Reset Confirm"
	ActionCreateUser           = "Create User"
	ActionUpdateUser           = "Update User"
	ActionDeleteUser           = "Delete User"
	ActionListUsers            = "List Users"
	ActionGetUser              = "Get User"
	ActionCreateEvent          = "Create Monitoring Event"
	ActionQueryDashboard       = "Query Dashboard"
)

type AuditEntryResponse struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
