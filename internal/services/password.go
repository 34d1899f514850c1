package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// credentialScheme tags the format of a stored secret. Accounts
// imported from the legacy system carry plaintext secrets; everything
// written since is bcrypt. Any other "$"-prefixed format is treated as
// unknown and fails closed rather than being compared as plaintext.
type credentialScheme int

const (
	schemeLegacy credentialScheme = iota
	schemeBcrypt
	schemeUnknown
)

var errUnknownCredentialScheme = errors.New("unrecognized credential format")

func classifyCredential(stored string) credentialScheme {
	switch {
	case strings.HasPrefix(stored, "$2a$"),
		strings.HasPrefix(stored, "$2b$"),
		strings.HasPrefix(stored, "$2y$"):
		return schemeBcrypt
	case strings.HasPrefix(stored, "$"):
		return schemeUnknown
	default:
		return schemeLegacy
	}
}

// verifyCredential checks password against the stored secret.
// needsRehash reports that the stored format should be upgraded after
// a successful match.
func verifyCredential(stored, password string) (ok bool, needsRehash bool, err error) {
	switch classifyCredential(stored) {
	case schemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return false, false, nil
			}
			return false, false, err
		}
		return true, false, nil
	case schemeLegacy:
		return stored == password, true, nil
	default:
		return false, false, errUnknownCredentialScheme
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
