package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// helperFunctions returns the functions available to every expression
func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// contains, startsWith and endsWith are expr operators and lower, upper,
	// hasPrefix and hasSuffix are expr builtins, so the case-insensitive
	// helpers need names of their own
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["sameAddress"] = func(a, b string) bool {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
}

// fields flattens a model into its JSON field map, so expressions address
// fields by the names the API uses.
func fields(model any) (map[string]any, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("model is not an object: %w", err)
	}
	if out == nil {
		return nil, ErrNoModel
	}
	return out, nil
}

// runtimeEnvironment builds the evaluation environment for one model
func runtimeEnvironment(model any, custom map[string]any) (map[string]any, error) {
	modelFields, err := fields(model)
	if err != nil {
		return nil, err
	}

	env := make(map[string]any, len(modelFields)+len(custom)+16)
	addHelperFunctions(env)
	for k, v := range custom {
		env[k] = v
	}
	for k, v := range modelFields {
		env[k] = v
	}
	env["it"] = modelFields
	env["hasTag"] = hasTagFunc(modelFields["tags"])

	return env, nil
}

func hasTagFunc(raw any) func(string) bool {
	values, _ := raw.([]any)
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			tags = append(tags, strings.ToLower(s))
		}
	}
	return func(tag string) bool {
		return slices.Contains(tags, strings.ToLower(tag))
	}
}
