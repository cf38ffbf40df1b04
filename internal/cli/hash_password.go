package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/dosalabel/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

// HashPasswordCmd prints a bcrypt hash for OPERATOR_PASSWORD_HASH.
type HashPasswordCmd struct{}

func (c *HashPasswordCmd) Run(ctx *Context) error {
	prompt := func(label string) (string, error) {
		return promptPassword(ctx.Stdout, ctx.Stdin, label)
	}
	return runHashPassword(ctx.Stdout, prompt)
}

func runHashPassword(out io.Writer, prompt func(label string) (string, error)) error {
	password, err := prompt("Operator password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if err := services.ValidateOperatorPassword(password); err != nil {
		return fmt.Errorf("password must be at least %d characters and mix letters with digits or symbols: %w",
			services.MinOperatorPasswordLength, err)
	}
	confirmation, err := prompt("Repeat password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if confirmation != password {
		return errPasswordMismatch
	}

	hash, err := services.HashOperatorPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintf(out, "OPERATOR_PASSWORD_HASH=%s\n", hash)
	return err
}

func promptPassword(out io.Writer, stdin *os.File, label string) (string, error) {
	if _, err := fmt.Fprint(out, label); err != nil {
		return "", err
	}
	password, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	return password, err
}
