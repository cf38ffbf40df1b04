package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/dosalabel/internal/services"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("29")).
			Padding(0, 1).
			Width(60)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	patientStyle = lipgloss.NewStyle().Bold(true)

	emphasisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// RenderCmd prints the stored label of a workspace the way it will be printed.
type RenderCmd struct {
	Workspace string `arg:"" optional:"" help:"Workspace id; empty renders the shared label."`
	Plain     bool   `help:"Print plain text without styling."`
}

func (c *RenderCmd) Run(ctx *Context) error {
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

	_, previews, err := labels.Previews(background, c.Workspace)
	if err != nil {
		return fmt.Errorf("build previews: %w", err)
	}
	_, err = fmt.Fprintln(ctx.Stdout, renderPreviews(previews, c.Plain))
	return err
}

func renderPreviews(previews []services.LabelPreview, plain bool) string {
	cards := make([]string, 0, len(previews))
	for _, preview := range previews {
		cards = append(cards, renderPreview(preview, plain))
	}
	if plain {
		return strings.Join(cards, "\n\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderPreview(preview services.LabelPreview, plain bool) string {
	lines := []string{preview.Serial + "    " + preview.Date}
	if preview.PatientName != "" {
		lines = append(lines, preview.PatientName)
	}
	if preview.Sequence != nil {
		sequence := preview.Sequence.Title
		if preview.Sequence.TakeAfter != "" {
			sequence += " (" + preview.Sequence.TakeAfter + ")"
		}
		lines = append(lines, sequence)
	}
	lines = append(lines, renderRichText(preview.Instruction, plain))
	for _, line := range preview.Counseling {
		lines = append(lines, renderRichText(line, plain))
	}

	if plain {
		return strings.Join(lines, "\n")
	}

	lines[0] = headerStyle.Render(lines[0])
	if preview.PatientName != "" {
		lines[1] = patientStyle.Render(lines[1])
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderRichText(text services.RichText, plain bool) string {
	if plain {
		return text.PlainText()
	}
	var builder strings.Builder
	for _, segment := range text {
		if segment.Emphasized {
			builder.WriteString(emphasisStyle.Render(segment.Text))
			continue
		}
		builder.WriteString(segment.Text)
	}
	return builder.String()
}
