package accounts

// CredentialManager turns staged plaintext passwords into persisted hash
// material and verifies login candidates against it.
type CredentialManager struct {
	hasher PasswordHasher
}

// NewCredentialManager returns a manager backed by the given hasher; nil
// selects the legacy MessageDigestHasher.
func NewCredentialManager(hasher PasswordHasher) *CredentialManager {
	if hasher == nil {
		hasher = MessageDigestHasher{}
	}
	return &CredentialManager{hasher: hasher}
}

// Commit derives the password hash from the staged plaintext and erases
// it. A brand-new account without a staged password gets a random one
// first; an already-persisted account without one keeps its current hash.
func (c *CredentialManager) Commit(account *Account) error {
	if account.ClearPassword() == "" {
		if !account.IsNew() {
			return nil
		}
		account.SetClearPassword(RandomPassword())
	}

	hash, err := c.hasher.Hash(account.ClearPassword(), account.Salt)
	if err != nil {
		return err
	}

	account.PasswordHash = hash
	account.EraseCredentials()
	return nil
}

// Verify compares the candidate against the stored hash using the
// account's salt. Returns ErrMismatchedHashAndPassword on mismatch.
func (c *CredentialManager) Verify(account *Account, candidate string) error {
	return c.hasher.Compare(candidate, account.Salt, account.PasswordHash)
}
