package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. The check set is intentionally narrow: earlier,
// broader pattern-matching rejected syntactically valid code (notably
// arbitrary-value styling), so each check here verifies an actual
// structural property rather than a stylistic heuristic.
var (
	ErrEmptyCode          = errors.New("generated code is empty")
	ErrNoDefaultExport    = errors.New("missing default export")
	ErrUnbalancedBrackets = errors.New("unbalanced brackets")
)

// Validate runs the structural checks on generated component source.
// A nil return means the code is accepted.
func Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}
	if !hasDefaultExport(code) {
		return ErrNoDefaultExport
	}
	if err := checkBracketBalance(code); err != nil {
		return err
	}
	return nil
}

// hasDefaultExport checks for an actual `export default` declaration.
func hasDefaultExport(code string) bool {
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "export default ") {
			return true
		}
	}
	return false
}

// checkBracketBalance verifies braces, brackets, and parens pair up,
// skipping string and template literals so content like CSS arbitrary
// values ("w-[32px]") or JSX text can never trip it. Single quotes are
// not treated as string delimiters: apostrophes in JSX prose would
// otherwise swallow real brackets and produce false positives.
func checkBracketBalance(code string) error {
	var stack []byte
	var inString byte // the active quote character, 0 when outside
	var escape bool

	for i := 0; i < len(code); i++ {
		b := code[i]

		if escape {
			escape = false
			continue
		}
		if inString != 0 {
			switch b {
			case '\\':
				escape = true
			case inString:
				inString = 0
			}
			continue
		}

		switch b {
		case '"', '`':
			inString = b
		case '{', '[', '(':
			stack = append(stack, b)
		case '}', ']', ')':
			if len(stack) == 0 {
				return fmt.Errorf("%w: unexpected %q at byte %d", ErrUnbalancedBrackets, string(b), i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !matches(open, b) {
				return fmt.Errorf("%w: %q closed by %q", ErrUnbalancedBrackets, string(open), string(b))
			}
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("%w: %d unclosed", ErrUnbalancedBrackets, len(stack))
	}
	return nil
}

func matches(open, close byte) bool {
	switch open {
	case '{':
		return close == '}'
	case '[':
		return close == ']'
	case '(':
		return close == ')'
	}
	return false
}
