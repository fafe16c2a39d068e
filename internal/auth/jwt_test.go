package auth

import (
	"testing"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	user := models.User{ID: "u1", Role: models.RoleOwner}

	token, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("userId claim = %q, want u1", claims.UserID)
	}
	if claims.Role != models.RoleOwner {
		t.Errorf("role claim = %q, want owner", claims.Role)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Fatal("garbage token validated")
	}
}
