package auth

import "github.com/rfcorreia/go-identity-service/internal/types"

// Access decisions are pure: no I/O, no side effects. Denial is always
// surfaced to the caller, never silently swallowed.

// CanRegister allows open registration.
func CanRegister() bool { return true }

// CanLogin always allows; login is gated by the directory lookup, the
// password check and the active flag instead.
func CanLogin() bool { return true }

// CanReadUser allows admins and the record's owner.
func CanReadUser(identity types.Identity, targetID int64) bool {
	return identity.IsAdmin() || identity.ID == targetID
}

// CanListUsers allows admins only.
func CanListUsers(identity types.Identity) bool {
	return identity.IsAdmin()
}

// CanBlockUser allows admins and the record's owner. Self-block is
// permitted.
func CanBlockUser(identity types.Identity, targetID int64) bool {
	return identity.IsAdmin() || identity.ID == targetID
}
