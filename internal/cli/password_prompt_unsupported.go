//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

// Echo cannot be disabled here; the password is read as typed.
func readPasswordNoEcho(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errStdinUnavailable
	}
	return readSecretLine(stdin)
}
