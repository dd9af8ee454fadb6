package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// ArgumentError reports a single invalid or missing parameter
type ArgumentError struct {
	Param   string
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// ValidateArgs checks submitted arguments against the declared parameter
// specs. Missing required parameters and type mismatches are errors naming
// the parameter; undeclared parameters are ignored. The returned map
// contains only declared parameters, with defaults filled in for omitted
// optional ones.
func ValidateArgs(specs []ParamSpec, args map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(specs))

	for _, spec := range specs {
		value, present := args[spec.Name]
		if !present {
			if spec.Required {
				return nil, &ArgumentError{
					Param:   spec.Name,
					Message: fmt.Sprintf("missing required parameter: %s", spec.Name),
				}
			}
			if spec.Default != nil {
				validated[spec.Name] = spec.Default
			}
			continue
		}

		if err := checkType(spec, value); err != nil {
			return nil, err
		}
		validated[spec.Name] = value
	}

	return validated, nil
}

func checkType(spec ParamSpec, value any) error {
	ok := false
	switch spec.Type {
	case TypeString:
		_, ok = value.(string)
	case TypeNumber:
		ok = isNumeric(value)
	case TypeInteger:
		ok = isIntegral(value)
	case TypeBoolean:
		_, ok = value.(bool)
	case TypeObject:
		_, ok = value.(map[string]any)
	}
	if !ok {
		return &ArgumentError{
			Param:   spec.Name,
			Message: fmt.Sprintf("parameter %s must be a %s", spec.Name, spec.Type),
		}
	}
	return nil
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

func isIntegral(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		// JSON numbers always decode as float64
		return v == math.Trunc(v)
	}
	return false
}

// Typed wraps a handler taking a decoded input struct, so tool
// implementations work with typed parameters instead of raw maps.
func Typed[T any](fn func(ctx context.Context, req *Request, input T) (any, error)) HandlerFunc {
	return func(ctx context.Context, req *Request) (any, error) {
		var input T
		data, err := json.Marshal(req.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments: %w", err)
		}
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to decode arguments: %w", err)
		}
		return fn(ctx, req, input)
	}
}
