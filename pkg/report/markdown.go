package report

import "github.com/charmbracelet/glamour"

// Markdown renders a rule body for the terminal. Rendering failures
// fall back to the raw content; showing a rule should never error out
// over styling.
func Markdown(content string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
