package app

import (
	"fmt"
	"strings"
)

// MissingCredentialsError is returned by New when any required credential is unset.
type MissingCredentialsError struct {
	Missing []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing credentials: %s", strings.Join(e.Missing, ", "))
}
