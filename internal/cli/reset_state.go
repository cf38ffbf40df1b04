package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ResetStateCmd deletes stored label state so the next load starts from the
// configured defaults.
type ResetStateCmd struct {
	Workspace string `arg:"" optional:"" help:"Workspace id to reset."`
	All       bool   `help:"Reset every workspace."`
}

type statePurger interface {
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

func (c *ResetStateCmd) Run(ctx *Context) error {
	if c.All == (strings.TrimSpace(c.Workspace) != "") {
		return errors.New("pass either a workspace id or --all")
	}

	background := context.Background()
	repositories, err := ctx.OpenStore(background)
	if err != nil {
		return err
	}
	defer repositories.Close()

	location, err := ctx.Location()
	if err != nil {
		return err
	}
	labels := ctx.NewLabelService(repositories.States, location)

	removed, err := resetState(background, repositories.States, labels.StateKey(c.Workspace), c.All)
	if err != nil {
		return err
	}
	ctx.Logger.Info("label state reset", "removed", removed, "all", c.All)
	_, err = fmt.Fprintf(ctx.Stdout, "✅ Removed %d label state(s)\n", removed)
	return err
}

func resetState(ctx context.Context, store statePurger, key string, all bool) (int64, error) {
	if all {
		removed, err := store.DeletePrefix(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("delete label states: %w", err)
		}
		return removed, nil
	}
	if err := store.Delete(ctx, key); err != nil {
		return 0, fmt.Errorf("delete label state %s: %w", key, err)
	}
	return 1, nil
}
