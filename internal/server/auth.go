package server

import "golang.org/x/crypto/bcrypt"

// hashPassword derives the stored password hash. Cost stays at the bcrypt
// default; raising it is a deploy-time decision, not a config knob.
func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// GenerateFromPassword only fails on an out-of-range cost.
		panic(err)
	}
	return string(hash)
}
