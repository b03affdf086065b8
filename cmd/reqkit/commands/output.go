package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/itchyny/gojq"
)

// applyFilter runs a jq expression over data. A single result is returned
// as is; several results come back as a slice.
func applyFilter(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	// Some shells escape ! even inside single quotes.
	expression = strings.ReplaceAll(expression, `\!`, `!`)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	var results []any
	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq: %w", err)
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// writeJSON pretty-prints v. Strings print bare so jq selections such as
// .name read naturally.
func writeJSON(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
