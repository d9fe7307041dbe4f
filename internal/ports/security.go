package ports

// PasswordHasher abstracts the one-way password scheme so the application
// layer never binds to a concrete algorithm.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches the stored hash. It returns
	// an error only for malformed hashes, not for mismatches.
	Compare(hash, plaintext string) (bool, error)
}
