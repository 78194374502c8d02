package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("Hash returned the plain password")
	}
	if err := h.Compare(hash, "s3cret"); err != nil {
		t.Errorf("Compare with correct password failed: %v", err)
	}
	if err := h.Compare(hash, "wrong"); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(""); err == nil {
		t.Error("Expected error for empty password")
	}
}
