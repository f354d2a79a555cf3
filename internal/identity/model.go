package identity

import "time"

// Account represents a registered token holder, operator or agent identity.
// The account ID doubles as its ledger account code.
type Account struct {
	ID         string
	Name       string
	SecretHash []byte
	CreatedAt  time.Time
}

// Credentials carry the data needed to register or authenticate an account.
type Credentials struct {
	Name   string
	Secret string
}
