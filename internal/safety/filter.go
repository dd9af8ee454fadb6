// Package safety restricts caller-supplied SQL to read-only statements.
//
// The check is lexical, not a SQL parser: the first token must be SELECT
// and no blocked keyword may appear as a standalone token anywhere in the
// text. A legitimate SELECT naming a column after a blocked keyword is
// rejected, and statements hidden in comments or encodings are not caught.
package safety

import (
	"fmt"
	"strings"

	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

var blockedKeywords = map[string]bool{
	"DROP":     true,
	"DELETE":   true,
	"INSERT":   true,
	"UPDATE":   true,
	"ALTER":    true,
	"TRUNCATE": true,
	"EXEC":     true,
	"MERGE":    true,
}

// RejectionError reports why a query was refused. Keyword is empty when
// the query was refused for not being a SELECT statement.
type RejectionError struct {
	Keyword string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return mcpErrors.ErrUnsafeQuery
}

// Check inspects query text and returns a RejectionError unless the text
// is an acceptable read-only statement.
func Check(query string) error {
	tokens := strings.FieldsFunc(query, isSeparator)
	if len(tokens) == 0 {
		return &RejectionError{Message: "query is empty"}
	}

	// Blocked keywords anywhere in the text catch statement chaining,
	// e.g. "SELECT 1; DROP TABLE x"
	for _, token := range tokens {
		upper := strings.ToUpper(token)
		if blockedKeywords[upper] {
			return &RejectionError{
				Keyword: upper,
				Message: fmt.Sprintf("query contains blocked keyword: %s", upper),
			}
		}
	}

	if !strings.EqualFold(tokens[0], "SELECT") {
		return &RejectionError{Message: "only SELECT queries are allowed"}
	}

	return nil
}

// isSeparator treats any character that cannot appear in a SQL Server
// identifier as a token boundary, so updated_at is one token, not UPDATE.
func isSeparator(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '_', r == '$', r == '#', r == '@':
		return false
	}
	return true
}
