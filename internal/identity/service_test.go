package identity

import "testing"

func TestPasswordHashing(t *testing.T) {
	password := "senha123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if err := VerifyPassword(hash, password); err != nil {
		t.Fatalf("VerifyPassword should succeed: %v", err)
	}
	if err := VerifyPassword(hash, "senha-errada"); err == nil {
		t.Fatal("VerifyPassword should fail for wrong password")
	}
}
