package domain

import "fmt"

// Status represents the registration state of a name as reported by the registry.
type Status string

const (
	StatusActive      Status = "active"
	StatusExpired     Status = "expired"
	StatusGracePeriod Status = "gracePeriod"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusExpired || s == StatusGracePeriod
}

// ParseStatus validates operator-supplied status text.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status %q: must be one of active, expired, gracePeriod", s)
	}
	return status, nil
}
