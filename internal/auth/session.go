package auth

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	UserType   string `json:"user_type"`
	AuthMethod string `json:"auth_method"` // "cookie", "bearer"
}
