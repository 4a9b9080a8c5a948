// Package prompt renders judge prompts from configured templates.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/mkrastev/veridict/internal/models"
)

// ErrTemplate marks a malformed prompt template. It is a configuration
// error: raised at construction, before any network call.
var ErrTemplate = errors.New("invalid prompt template")

// placeholders that every judge template must reference exactly once.
var placeholders = []string{
	"{{.Question}}",
	"{{.ExpectedAnswer}}",
	"{{.GeneratedAnswer}}",
}

// Formatter substitutes an evaluation item into a fixed template. The
// template must contain exactly one occurrence of each placeholder; values
// are substituted verbatim.
type Formatter struct {
	tmpl *template.Template
}

func NewFormatter(name string, templateText string) (*Formatter, error) {
	for _, ph := range placeholders {
		switch n := strings.Count(templateText, ph); n {
		case 1:
		case 0:
			return nil, fmt.Errorf("%w: template %q is missing placeholder %s", ErrTemplate, name, ph)
		default:
			return nil, fmt.Errorf("%w: template %q contains placeholder %s %d times, want 1", ErrTemplate, name, ph, n)
		}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	return &Formatter{tmpl: tmpl}, nil
}

// Render executes the template with the given item. No side effects.
func (f *Formatter) Render(item models.EvaluationItem) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, item); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}
