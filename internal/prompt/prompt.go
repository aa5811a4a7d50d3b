package prompt

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pdf-chat/internal/models"
)

const (
	contextPlaceholder = "{context_snippets}"
	queryPlaceholder   = "{user_query}"
)

// Template is the system-prompt template loaded from a YAML file. The
// body carries {context_snippets} and {user_query} placeholders.
type Template struct {
	System string `yaml:"system"`
}

func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Render substitutes the context snippets (newline-joined) and the
// user query into the template. Empty context renders an empty context
// block, which is still a well-formed prompt.
func (t *Template) Render(contextSnippets []string, userQuery string) string {
	rendered := strings.ReplaceAll(t.System, contextPlaceholder, strings.Join(contextSnippets, models.ContextSeparator))
	return strings.ReplaceAll(rendered, queryPlaceholder, userQuery)
}
