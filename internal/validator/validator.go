// Package validator performs request-level hygiene checks on tool call
// envelopes before they reach the dispatcher. Failures here are transport
// rejections, not tool errors.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
)

const (
	maxArgumentsSize = 100 * 1024 // 100KB
	maxNestDepth     = 10
)

var (
	toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
	forbiddenKeys   = []string{"__proto__", "constructor", "prototype"}
)

// findForbiddenKey walks objects and arrays looking for keys that enable
// prototype pollution attacks against downstream JSON consumers
func findForbiddenKey(obj any) (string, bool) {
	switch v := obj.(type) {
	case map[string]any:
		for key, val := range v {
			// キー名自体をチェック
			if slices.Contains(forbiddenKeys, key) {
				return key, true
			}
			// 値を再帰的にチェック
			if found, ok := findForbiddenKey(val); ok {
				return found, true
			}
		}
	case []any:
		for _, val := range v {
			if found, ok := findForbiddenKey(val); ok {
				return found, true
			}
		}
	}
	return "", false
}

// ValidateRequest validates the tool call envelope fields
func ValidateRequest(toolName string, arguments any) error {
	if err := validateToolName(toolName); err != nil {
		return err
	}
	if err := validateArguments(arguments); err != nil {
		return err
	}
	return nil
}

func validateToolName(name string) error {
	if name == "" {
		return errors.New("tool name is required")
	}
	if len(name) > 100 {
		return errors.New("tool name exceeds maximum length (100 characters)")
	}
	if !toolNamePattern.MatchString(name) {
		return errors.New("tool name contains invalid characters")
	}
	return nil
}

func validateArguments(arguments any) error {
	// Absent arguments are fine; tools with no parameters take none
	if arguments == nil {
		return nil
	}

	argsMap, ok := arguments.(map[string]any)
	if !ok {
		return errors.New("arguments must be a JSON object")
	}

	if key, found := findForbiddenKey(argsMap); found {
		return fmt.Errorf("arguments contain forbidden key: %s", key)
	}

	jsonBytes, err := json.Marshal(argsMap)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if len(jsonBytes) > maxArgumentsSize {
		return fmt.Errorf("arguments exceed maximum size (%d bytes)", maxArgumentsSize)
	}

	if depth := getObjectDepth(argsMap, 1); depth > maxNestDepth {
		return fmt.Errorf("arguments nesting exceeds maximum depth (%d)", maxNestDepth)
	}

	return nil
}

func getObjectDepth(obj any, currentDepth int) int {
	if currentDepth > maxNestDepth {
		return currentDepth
	}

	switch v := obj.(type) {
	case map[string]any:
		maxDepth := currentDepth
		for _, val := range v {
			depth := getObjectDepth(val, currentDepth+1)
			if depth > maxDepth {
				maxDepth = depth
			}
		}
		return maxDepth
	case []any:
		maxDepth := currentDepth
		for _, val := range v {
			depth := getObjectDepth(val, currentDepth+1)
			if depth > maxDepth {
				maxDepth = depth
			}
		}
		return maxDepth
	default:
		return currentDepth
	}
}
