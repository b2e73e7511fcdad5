package rest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/config"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util/values"
)

func testAPI() *API {
	return &API{
		Config: &config.Config{
			JwtSecret:     "test-secret",
			JwtExpires:    "15m",
			RefreshSecret: "test-refresh-secret",
			RefreshExpiry: "720h",
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	api := testAPI()
	userID := uuid.New().String()

	token, expiresAt, err := api.createToken(userID)
	if err != nil {
		t.Fatalf("createToken: %v", err)
	}
	if expiresAt.IsZero() {
		t.Error("expiry should be set")
	}

	claims, err := api.verifyToken(token, false)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %q, want %q", claims.UserID, userID)
	}
	if claims.Type != "access" {
		t.Errorf("token type = %q, want access", claims.Type)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	api := testAPI()
	userID := uuid.New().String()

	token, _, err := api.createRefreshToken(userID)
	if err != nil {
		t.Fatalf("createRefreshToken: %v", err)
	}

	claims, err := api.verifyToken(token, true)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if claims.Type != "refresh" {
		t.Errorf("token type = %q, want refresh", claims.Type)
	}
}

func TestVerifyTokenRejectsWrongType(t *testing.T) {
	api := testAPI()
	userID := uuid.New().String()

	access, _, err := api.createToken(userID)
	if err != nil {
		t.Fatalf("createToken: %v", err)
	}
	if _, err := api.verifyToken(access, true); err == nil {
		t.Error("access token must not verify as refresh token")
	}

	refresh, _, err := api.createRefreshToken(userID)
	if err != nil {
		t.Fatalf("createRefreshToken: %v", err)
	}
	if _, err := api.verifyToken(refresh, false); err == nil {
		t.Error("refresh token must not verify as access token")
	}
}

func TestRefreshTokenHelperRejectsInvalidToken(t *testing.T) {
	api := testAPI()

	resp, status, _, err := api.RefreshTokenHelper(context.Background(), model.RefreshTokenRequest{
		RefreshToken: "not-a-token",
	})
	if err == nil {
		t.Fatal("expected an error for a malformed refresh token")
	}
	if status != values.NotAuthorised {
		t.Errorf("status = %q, want %q", status, values.NotAuthorised)
	}
	if resp.AccessToken != "" || resp.RefreshToken != "" {
		t.Error("no tokens should be issued on failure")
	}

	access, _, err := api.createToken(uuid.New().String())
	if err != nil {
		t.Fatalf("createToken: %v", err)
	}
	resp, status, _, err = api.RefreshTokenHelper(context.Background(), model.RefreshTokenRequest{
		RefreshToken: access,
	})
	if err == nil {
		t.Fatal("expected an error when an access token is presented for refresh")
	}
	if status != values.NotAuthorised {
		t.Errorf("status = %q, want %q", status, values.NotAuthorised)
	}
	if resp.AccessToken != "" {
		t.Error("no tokens should be issued on failure")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	api := testAPI()

	if _, err := api.verifyToken("not-a-token", false); err == nil {
		t.Error("garbage input should fail verification")
	}
}
