package utils

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 4

// passwordCost is lowered by tests to keep hashing fast.
var passwordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordLongEnough counts runes, so multi-byte characters count once.
func PasswordLongEnough(password string) bool {
	return len([]rune(password)) >= MinPasswordLength
}

// UseMinPasswordCost switches hashing to bcrypt.MinCost. Tests only.
func UseMinPasswordCost() {
	passwordCost = bcrypt.MinCost
}
