package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alturanft/alturanft-go/query"
)

var compiler = query.NewCompiler()

// printResult writes model as indented JSON, or the value of expression
// evaluated against it when expression is set
func printResult(w io.Writer, model any, expression string) error {
	if expression == "" {
		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	program, err := compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	value, err := program.Evaluate(model)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case string:
		_, err = fmt.Fprintln(w, v)
	case nil:
		_, err = fmt.Fprintln(w, "null")
	default:
		var data []byte
		data, err = json.Marshal(v)
		if err == nil {
			_, err = fmt.Fprintln(w, string(data))
		}
	}
	return err
}
