package enums

import "fmt"

// SessionState tracks the client's authentication lifecycle.
type SessionState string

const (
	SessionStateAnonymous      SessionState = "anonymous"
	SessionStateAuthenticating SessionState = "authenticating"
	SessionStateAuthenticated  SessionState = "authenticated"
)

var validSessionStates = []SessionState{
	SessionStateAnonymous,
	SessionStateAuthenticating,
	SessionStateAuthenticated,
}

// String implements fmt.Stringer.
func (s SessionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionState.
func (s SessionState) IsValid() bool {
	for _, candidate := range validSessionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionState converts raw input into a SessionState.
func ParseSessionState(value string) (SessionState, error) {
	for _, candidate := range validSessionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session state %q", value)
}
