package classifier

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/omarshaarawi/fcbot/internal/models"
)

//go:embed prompt.tmpl
var promptTemplate string

//go:embed examples.yaml
var examplesYAML []byte

type Example struct {
	Query         string        `yaml:"query"`
	Action        models.Action `yaml:"action"`
	SearchKeyword string        `yaml:"search_keyword"`
}

// Examples returns the worked examples embedded in the instruction set.
func Examples() ([]Example, error) {
	var examples []Example
	if err := yaml.Unmarshal(examplesYAML, &examples); err != nil {
		return nil, fmt.Errorf("parsing examples: %w", err)
	}
	for i, e := range examples {
		if _, err := models.ParseAction(string(e.Action)); err != nil {
			return nil, fmt.Errorf("example %d: %w", i+1, err)
		}
	}
	return examples, nil
}

// Instructions renders the fixed instruction set sent to the oracle.
func Instructions() (string, error) {
	examples, err := Examples()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("prompt").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		Parse(promptTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Examples []Example }{examples}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
