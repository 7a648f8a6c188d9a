package mocks

// MockPasswordHasher implements domain.PasswordHasher for testing. The
// defaults use a reversible "hashed_" prefix so tests can assert on
// stored values.
type MockPasswordHasher struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(password, hash string) bool
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordHasher) Verify(password, hash string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(password, hash)
	}
	return hash == "hashed_"+password
}
