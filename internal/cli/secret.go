package cli

import (
	"fmt"

	"github.com/terraincognita07/dosalabel/internal/security"
)

// GenSecretCmd prints a random value suitable for SECRET_KEY.
type GenSecretCmd struct{}

func (c *GenSecretCmd) Run(ctx *Context) error {
	secret, err := security.NewSecretKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Stdout, "SECRET_KEY=%s\n", secret)
	return err
}
