package cli

import (
	"errors"
	"io"
	"strings"
)

var (
	errStdinUnavailable = errors.New("stdin unavailable")
	errNoSecretInput    = errors.New("no input")
)

// readSecretLine reads one line a byte at a time so consecutive prompts on a
// piped stdin do not swallow each other's input.
func readSecretLine(reader io.Reader) (string, error) {
	var line strings.Builder
	buffer := make([]byte, 1)
	for {
		n, err := reader.Read(buffer)
		if n == 1 {
			if buffer[0] == '\n' {
				break
			}
			line.WriteByte(buffer[0])
		}
		if errors.Is(err, io.EOF) {
			if line.Len() == 0 {
				return "", errNoSecretInput
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(line.String(), "\r"), nil
}
