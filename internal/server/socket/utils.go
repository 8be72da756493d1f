package socket

import "github.com/google/uuid"

// newSessionID - generates a new unique session id.
func newSessionID() string {
	return uuid.NewString()
}
