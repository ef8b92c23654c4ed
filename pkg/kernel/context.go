package kernel

// AuthContext is the identity resolved by the request gate and attached to
// every authenticated request.
type AuthContext struct {
	UserID   UserID   `json:"user_id"`
	TenantID TenantID `json:"tenant_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
}

// IsValid reports whether the context identifies a user.
func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty()
}

type ContextKey string

const (
	// AuthContextKey is the locals/context key holding *AuthContext.
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey is the locals/context key holding the request id.
	RequestIDKey ContextKey = "request_id"
)
