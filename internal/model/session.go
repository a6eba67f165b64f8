package model

import "context"

// Session is the single authenticated actor of a browsing context. It never
// carries the password.
type Session struct {
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	LoginTime string `json:"loginTime"`
}

// NewSession builds the session view of u.
func NewSession(u User, loginTime string) Session {
	return Session{
		UserID:    u.ID,
		UserName:  u.Name,
		Email:     u.Email,
		Role:      u.Role,
		LoginTime: loginTime,
	}
}

type sessionSlotKey struct{}

// WithSessionSlot scopes session reads and writes in ctx to one browsing
// context, identified by slot.
func WithSessionSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, sessionSlotKey{}, slot)
}

// SessionSlotFrom returns the slot set by WithSessionSlot, or "" for the
// default single slot.
func SessionSlotFrom(ctx context.Context) string {
	slot, _ := ctx.Value(sessionSlotKey{}).(string)
	return slot
}
