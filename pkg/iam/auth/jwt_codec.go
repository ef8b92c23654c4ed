package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// JWTCodec implements TokenCodec with HS256-signed JWTs. The token type
// travels in a "typ" claim so an access token can never pass where a
// refresh token is expected, and vice versa.
type JWTCodec struct {
	secret        []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	rememberedTTL time.Duration
}

func NewJWTCodec(cfg *config.JWTConfig) *JWTCodec {
	return &JWTCodec{
		secret:        []byte(cfg.Secret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		rememberedTTL: cfg.RefreshTTLRemembered,
	}
}

type jwtClaims struct {
	TokenType string `json:"typ"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccess mints an access token embedding subject, email and name.
func (c *JWTCodec) IssueAccess(u *user.User) (IssuedToken, error) {
	return c.issue(jwtClaims{
		TokenType: string(TokenKindAccess),
		Email:     u.Email,
		Name:      u.Name,
		TenantID:  u.TenantID.String(),
	}, u.ID, c.accessTTL)
}

// IssueRefresh mints a refresh token. The remembered flag selects the
// long-lived TTL requested by "remember me" at login.
func (c *JWTCodec) IssueRefresh(u *user.User, remembered bool) (IssuedToken, error) {
	ttl := c.refreshTTL
	if remembered {
		ttl = c.rememberedTTL
	}
	return c.issue(jwtClaims{
		TokenType: string(TokenKindRefresh),
		Email:     u.Email,
	}, u.ID, ttl)
}

func (c *JWTCodec) issue(claims jwtClaims, subject kernel.UserID, ttl time.Duration) (IssuedToken, error) {
	now := time.Now()
	expires := now.Add(ttl)
	// The jti keeps tokens minted within the same second distinct, so
	// parallel logins never collide on the same store key.
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject.String(),
		Audience:  []string{c.audience},
		ExpiresAt: jwt.NewNumericDate(expires),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return IssuedToken{}, ErrTokenGeneration(err)
	}
	return IssuedToken{Value: signed, IssuedAt: now, ExpiresAt: expires}, nil
}

// DecodeAccess verifies an access token. Any failure, including a refresh
// token presented here, is ok=false with no further detail.
func (c *JWTCodec) DecodeAccess(token string) (*AccessClaims, bool) {
	claims, ok := c.decode(token, TokenKindAccess)
	if !ok {
		return nil, false
	}
	return &AccessClaims{
		UserID:    kernel.NewUserID(claims.Subject),
		TenantID:  kernel.NewTenantID(claims.TenantID),
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// DecodeRefresh verifies a refresh token with the same collapsed failure
// semantics as DecodeAccess.
func (c *JWTCodec) DecodeRefresh(token string) (*RefreshClaims, bool) {
	claims, ok := c.decode(token, TokenKindRefresh)
	if !ok {
		return nil, false
	}
	return &RefreshClaims{
		UserID:    kernel.NewUserID(claims.Subject),
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

func (c *JWTCodec) decode(token string, kind TokenKind) (*jwtClaims, bool) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || claims.TokenType != string(kind) {
		return nil, false
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, false
	}
	return claims, true
}
