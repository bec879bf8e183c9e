package utils

import "os"

// IsDebugEnabled returns true when PASTY_DEBUG is set, or unless
// GIN_MODE=release.
func IsDebugEnabled() bool {
	if os.Getenv("PASTY_DEBUG") != "" {
		return true
	}
	return os.Getenv("GIN_MODE") != "release"
}
