package transform

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/jamesainslie/scrub/pkg/scrub/logging"
)

var reXMLDecl = regexp.MustCompile(`(?is)<\?xml.*?\?>\s*`)

// Reformat pretty-prints self-describing structured formats. JSON is
// re-serialized with two-space indent and stable key order; XML is
// re-indented with the declaration stripped and not re-added. Parse
// failure keeps the input text, it is not fatal for the file.
func Reformat(text, ext string) string {
	switch ext {
	case ".json":
		return reformatJSON(text)
	case ".xml":
		return reformatXML(text)
	}
	return text
}

func reformatJSON(text string) string {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		logging.Get("pipeline").Warn("json reformat failed", "error", err)
		return text
	}
	// A lone value must account for the whole text. Concatenated
	// documents or NDJSON are not a single reformattable value; keeping
	// the text avoids writing a truncated file on save.
	if dec.More() {
		logging.Get("pipeline").Warn("json reformat failed", "error", "trailing data after value")
		return text
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(parsed); err != nil {
		logging.Get("pipeline").Warn("json reformat failed", "error", err)
		return text
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func reformatXML(text string) string {
	stripped := strings.TrimSpace(reXMLDecl.ReplaceAllString(text, ""))
	if stripped == "" {
		return ""
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(stripped); err != nil {
		logging.Get("pipeline").Warn("xml reformat failed", "error", err)
		return text
	}
	doc.Indent(2)

	out, err := doc.WriteToString()
	if err != nil {
		logging.Get("pipeline").Warn("xml reformat failed", "error", err)
		return text
	}

	// Indenting can leave blank lines around mixed content; drop them.
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
