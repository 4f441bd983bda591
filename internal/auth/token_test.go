package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyHS256(t *testing.T) {
	claims := Claims{
		Sub:  "psi1",
		Name: "Dr. Lucas Mendes",
		Role: RoleProfessional,
		Iat:  time.Now().Unix(),
		Exp:  time.Now().Add(time.Hour).Unix(),
	}
	token, err := SignHS256(claims, "segredo")
	if err != nil {
		t.Fatalf("SignHS256: %v", err)
	}

	got, err := ParseAndVerifyHS256(token, "segredo")
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256: %v", err)
	}
	if got.Sub != claims.Sub || got.Role != claims.Role || got.Name != claims.Name {
		t.Fatalf("claims mismatch: %+v", got)
	}

	if _, err := ParseAndVerifyHS256(token, "outro-segredo"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestParseAndVerifyHS256_Expired(t *testing.T) {
	claims := Claims{
		Sub: "psi1",
		Exp: time.Now().Add(-time.Minute).Unix(),
	}
	token, err := SignHS256(claims, "segredo")
	if err != nil {
		t.Fatalf("SignHS256: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "segredo"); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAndVerifyHS256_Garbage(t *testing.T) {
	for _, token := range []string{"", "a.b", "not-a-token"} {
		if _, err := ParseAndVerifyHS256(token, "segredo"); err == nil {
			t.Fatalf("expected failure for %q", token)
		}
	}
}
