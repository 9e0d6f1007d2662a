package models

import "time"

// AdminSession backs a signed admin token; deleting the row revokes the
// token before its expiry claim runs out.
type AdminSession struct {
	SessionID string    `db:"session_id" json:"sessionId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	IP        string    `db:"ip" json:"ip"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
