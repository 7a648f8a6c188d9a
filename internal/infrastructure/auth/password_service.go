package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/identitysvc/domain"
)

// DefaultBcryptCost matches the stock policy of 12 rounds.
const DefaultBcryptCost = 12

// PasswordServiceImpl implements domain.PasswordHasher using bcrypt.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a hasher with the given work factor. Costs
// outside bcrypt's range fall back to the default.
func NewPasswordService(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordHasher.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements domain.PasswordHasher.
func (p *PasswordServiceImpl) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
