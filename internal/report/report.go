package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ig-oembed/internal/oembed"
)

// pickedKeys are the commonly useful oEmbed fields, in display order.
var pickedKeys = []string{
	"title",
	"author_name",
	"author_url",
	"thumbnail_url",
	"provider_name",
	"provider_url",
	"html",
}

// Print writes a human-readable report for one oEmbed call: status line,
// final URL, the full response body, and a picked-fields subset when any of
// the recognized keys are present.
func Print(w io.Writer, tag string, result *oembed.Result) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "[%s] HTTP %d\n", tag, result.HTTPStatus)
	fmt.Fprintf(w, "Final URL: %s\n", result.FinalURL)
	fmt.Fprintln(w, strings.Repeat("-", 80))

	if body, err := marshalIndent(result.Response); err != nil {
		fmt.Fprintf(w, "%v\n", result.Response)
	} else {
		fmt.Fprintln(w, body)
	}

	picked := pick(result.Response)
	if len(picked) == 0 {
		return
	}
	s, err := renderPicked(picked)
	if err != nil {
		return
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintln(w, "Picked fields:")
	fmt.Fprintln(w, s)
}

type field struct {
	key   string
	value interface{}
}

func pick(resp map[string]interface{}) []field {
	var fields []field
	for _, k := range pickedKeys {
		if v, ok := resp[k]; ok {
			fields = append(fields, field{k, v})
		}
	}
	return fields
}

// renderPicked assembles the object by hand so keys keep pickedKeys order
// instead of encoding/json's alphabetical map order.
func renderPicked(fields []field) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range fields {
		v, err := marshalValue(f.value)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "  %q: %s", f.key, v)
		if i < len(fields)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String(), nil
}

// marshalIndent pretty-prints with HTML escaping off so the embed snippet
// survives verbatim.
func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func marshalValue(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
