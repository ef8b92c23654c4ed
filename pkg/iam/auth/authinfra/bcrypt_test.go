package authinfra_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mensajero-app/mensajero/pkg/iam/auth/authinfra"
)

func TestBcryptHashAndVerify(t *testing.T) {
	hasher := authinfra.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !hasher.Verify("hunter22", hash) {
		t.Error("correct password should verify")
	}
	if hasher.Verify("wrong", hash) {
		t.Error("wrong password must not verify")
	}
}

func TestBcryptVerifyMalformedHash(t *testing.T) {
	hasher := authinfra.NewBcryptHasher(bcrypt.MinCost)

	if hasher.Verify("hunter22", "not-a-bcrypt-hash") {
		t.Error("malformed hash must verify false, not panic or error")
	}
	if hasher.Verify("hunter22", "") {
		t.Error("empty hash must verify false")
	}
}

func TestBcryptCostClamping(t *testing.T) {
	// Out-of-range costs fall back to the library default instead of
	// failing every Hash call.
	for _, cost := range []int{-1, 0, 99} {
		hasher := authinfra.NewBcryptHasher(cost)
		hash, err := hasher.Hash("hunter22")
		if err != nil {
			t.Fatalf("Hash with clamped cost %d failed: %v", cost, err)
		}
		if !hasher.Verify("hunter22", hash) {
			t.Errorf("hash with clamped cost %d should verify", cost)
		}
	}
}
