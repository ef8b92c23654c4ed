package auth_test

import (
	"testing"
	"time"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

func newCodec(accessTTL, refreshTTL time.Duration) *auth.JWTCodec {
	return auth.NewJWTCodec(&config.JWTConfig{
		Secret:               "codec-test-secret",
		Issuer:               "mensajero",
		Audience:             "mensajero-api",
		AccessTTL:            accessTTL,
		RefreshTTL:           refreshTTL,
		RefreshTTLRemembered: 2 * refreshTTL,
	})
}

func testUser() *user.User {
	return &user.User{
		ID:       kernel.NewUserID("user-1"),
		TenantID: kernel.NewTenantID("tenant-1"),
		Email:    "alice@example.com",
		Name:     "Alice",
		IsActive: true,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newCodec(15*time.Minute, time.Hour)

	issued, err := codec.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if !issued.ExpiresAt.After(issued.IssuedAt) {
		t.Fatal("expiry must be after issuance")
	}

	claims, ok := codec.DecodeAccess(issued.Value)
	if !ok {
		t.Fatal("freshly issued access token should decode")
	}
	if claims.UserID != kernel.NewUserID("user-1") {
		t.Errorf("wrong subject %q", claims.UserID)
	}
	if claims.TenantID != kernel.NewTenantID("tenant-1") {
		t.Errorf("wrong tenant %q", claims.TenantID)
	}
	if claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("wrong identity claims: %q %q", claims.Email, claims.Name)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := newCodec(15*time.Minute, time.Hour)

	issued, err := codec.IssueRefresh(testUser(), false)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}
	claims, ok := codec.DecodeRefresh(issued.Value)
	if !ok {
		t.Fatal("freshly issued refresh token should decode")
	}
	if claims.UserID != kernel.NewUserID("user-1") {
		t.Errorf("wrong subject %q", claims.UserID)
	}
}

func TestRememberedRefreshTTL(t *testing.T) {
	codec := newCodec(15*time.Minute, time.Hour)

	plain, err := codec.IssueRefresh(testUser(), false)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}
	remembered, err := codec.IssueRefresh(testUser(), true)
	if err != nil {
		t.Fatalf("IssueRefresh(remembered) failed: %v", err)
	}
	if !remembered.ExpiresAt.After(plain.ExpiresAt) {
		t.Error("remembered refresh token should outlive the plain one")
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	codec := newCodec(15*time.Minute, time.Hour)

	access, _ := codec.IssueAccess(testUser())
	refresh, _ := codec.IssueRefresh(testUser(), false)

	if _, ok := codec.DecodeAccess(refresh.Value); ok {
		t.Error("refresh token must not decode as access")
	}
	if _, ok := codec.DecodeRefresh(access.Value); ok {
		t.Error("access token must not decode as refresh")
	}
}

func TestDecodeRejectsTamperAndForeignKeys(t *testing.T) {
	codec := newCodec(15*time.Minute, time.Hour)
	issued, _ := codec.IssueAccess(testUser())

	if _, ok := codec.DecodeAccess(issued.Value + "x"); ok {
		t.Error("tampered signature should not decode")
	}
	if _, ok := codec.DecodeAccess("garbage"); ok {
		t.Error("non-JWT input should not decode")
	}

	other := auth.NewJWTCodec(&config.JWTConfig{
		Secret:   "a-different-secret",
		Issuer:   "mensajero",
		Audience: "mensajero-api",
	})
	if _, ok := other.DecodeAccess(issued.Value); ok {
		t.Error("token signed with another secret should not decode")
	}

	wrongIssuer := auth.NewJWTCodec(&config.JWTConfig{
		Secret:    "codec-test-secret",
		Issuer:    "someone-else",
		Audience:  "mensajero-api",
		AccessTTL: 15 * time.Minute,
	})
	if _, ok := wrongIssuer.DecodeAccess(issued.Value); ok {
		t.Error("issuer mismatch should not decode")
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	codec := newCodec(-time.Minute, time.Hour)

	issued, err := codec.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if _, ok := codec.DecodeAccess(issued.Value); ok {
		t.Error("expired token should not decode")
	}
}
