package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/dosalabel/internal/models"
)

// StatesCmd lists the workspaces that have stored label state.
type StatesCmd struct{}

var errStatesNeedSQLite = errors.New("listing label states needs the sqlite backend")

type stateLister interface {
	List(ctx context.Context, prefix string) ([]models.LabelState, error)
	Count(ctx context.Context) (int64, error)
}

func (c *StatesCmd) Run(ctx *Context) error {
	background := context.Background()
	repositories, err := ctx.OpenStore(background)
	if err != nil {
		return err
	}
	defer repositories.Close()

	lister, ok := repositories.States.(stateLister)
	if !ok {
		return errStatesNeedSQLite
	}
	location, err := ctx.Location()
	if err != nil {
		return err
	}
	labels := ctx.NewLabelService(repositories.States, location)
	return listStates(background, ctx.Stdout, lister, labels.StateKey(""))
}

func listStates(ctx context.Context, out io.Writer, lister stateLister, prefix string) error {
	states, err := lister.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list label states: %w", err)
	}
	total, err := lister.Count(ctx)
	if err != nil {
		return fmt.Errorf("count label states: %w", err)
	}

	lines := make([]string, 0, len(states)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%d of %d stored row(s) under %s", len(states), total, prefix)))
	for _, state := range states {
		workspace := strings.TrimPrefix(strings.TrimPrefix(state.StateKey, prefix), ":")
		if workspace == "" {
			workspace = "(shared)"
		}
		lines = append(lines, fmt.Sprintf("%-24s rev %-4d %s",
			patientStyle.Render(workspace), state.Revision, state.UpdatedAt.UTC().Format("2006-01-02 15:04:05")))
	}
	_, err = fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}
