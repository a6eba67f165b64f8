package model

import "context"

// Audit actions written to the access log.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionCreatedUser    = "created_user"
	ActionUpdatedUser    = "updated_user"
	ActionDeletedUser    = "deleted_user"
	ActionCreatedProject = "created_project"
	ActionUpdatedProject = "updated_project"
	ActionDeletedProject = "deleted_project"
)

// ClientInfo describes the client that performed an audited action.
type ClientInfo struct {
	IP      string `json:"ip"`
	Browser string `json:"browser"`
}

// AccessLogEntry is an immutable audit record. Entries are never updated or
// deleted once appended.
type AccessLogEntry struct {
	ID         int        `json:"id"`
	UserID     int        `json:"userId"`
	UserName   string     `json:"userName"`
	Role       Role       `json:"role"`
	Timestamp  string     `json:"timestamp"`
	ClientInfo ClientInfo `json:"clientInfo"`
	Action     string     `json:"action"`
}

type clientInfoKey struct{}

var unknownClient = ClientInfo{IP: "unknown", Browser: "unknown"}

// WithClientInfo returns a context carrying the calling client's details.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom extracts client details from ctx.
func ClientInfoFrom(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(clientInfoKey{}).(ClientInfo); ok {
		if info.IP == "" {
			info.IP = unknownClient.IP
		}
		if info.Browser == "" {
			info.Browser = unknownClient.Browser
		}
		return info
	}
	return unknownClient
}
