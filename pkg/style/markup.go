package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var tagPattern = regexp.MustCompile(`\[([a-z_]+)\]([^\[]*)\[/([a-z_]+)\]`)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles map[string]lipgloss.Style
}

// NewMarkupParser creates a new markup parser with default styles
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{
		styles: map[string]lipgloss.Style{
			"title":   TitleStyle,
			"success": SuccessStyle,
			"error":   ErrorStyle,
			"warning": WarningStyle,
			"info":    InfoStyle,
			"path":    PathStyle,
			"muted":   MutedStyle,
			"package": PackageStyle,
			"syncing": SyncingStyle,
			"bold":    lipgloss.NewStyle().Bold(true),
		},
	}
}

// Render processes markup text and returns styled output. Tags do not
// nest; unknown or mismatched tags are left untouched.
func (p *MarkupParser) Render(text string) string {
	return p.replace(text, func(style lipgloss.Style, content string) string {
		return style.Render(content)
	})
}

// Strip removes known markup tags without styling
func (p *MarkupParser) Strip(text string) string {
	return p.replace(text, func(_ lipgloss.Style, content string) string {
		return content
	})
}

func (p *MarkupParser) replace(text string, fn func(lipgloss.Style, string) string) string {
	return tagPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := tagPattern.FindStringSubmatch(match)
		open, content, closing := sub[1], sub[2], sub[3]
		style, ok := p.styles[open]
		if !ok || open != closing {
			return match
		}
		return fn(style, content)
	})
}

// AddStyle allows adding custom styles
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
}

// RenderTemplate substitutes {{key}} placeholders then renders markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}

var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// Strip is a convenience function using the default parser
func Strip(text string) string {
	return defaultParser.Strip(text)
}
