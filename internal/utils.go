package internal

import (
	"bytes"
	"text/template"
)

// ParsePrompt renders one of the label-generation prompt templates against
// the cluster snippet data passed in.
func ParsePrompt(promptTemplate string, data any) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
