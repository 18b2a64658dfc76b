package smoke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/loykin/apismoke/internal/util"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Overall is the verdict of the whole run: PASS only when every section that ran passed.
func (r *Report) Overall() Verdict {
	if r == nil || r.Chat == nil {
		return Unknown
	}
	verdict := r.Chat.Overall
	for _, s := range []*Summary{r.LookupTagsSummary, r.UsersSummary} {
		if s == nil || s.Overall == Unknown {
			continue
		}
		if s.Overall == Fail {
			verdict = Fail
		}
	}
	return verdict
}

// Encode writes the report to w as indented JSON (default) or YAML. Both keep the
// key order of the JSON form.
func (r *Report) Encode(w io.Writer, format string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	switch util.TrimAndLower(format) {
	case "", FormatJSON:
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML, "yml":
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unsupported report format %q (valid: json, yaml)", format)
	}
}

// writeYAML re-reads JSON as a YAML node tree, which preserves key order, and
// prints it in block style.
func writeYAML(w io.Writer, jsonData []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("convert report to yaml: %w", err)
	}
	clearStyle(&doc)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
