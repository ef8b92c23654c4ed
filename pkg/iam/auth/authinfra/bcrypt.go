package authinfra

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
)

// BcryptHasher implements auth.PasswordHasher on bcrypt. The cost is the
// work factor knob: each +1 doubles hashing time.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// plain false, never an error.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var _ auth.PasswordHasher = (*BcryptHasher)(nil)
