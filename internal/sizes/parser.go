package sizes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const bracketChars = "[](){}"

var (
	unitPattern      = regexp.MustCompile(`(?i)\bkb\b`)
	separatorPattern = regexp.MustCompile(`[\s,;]+`)
	integerPattern   = regexp.MustCompile(`^[+-]?\d+$`)

	// Literal list elements may group digits with single underscores, as in 1_000.
	literalIntegerPattern = regexp.MustCompile(`^[+-]?\d+(?:_\d+)*$`)
	literalPattern        = regexp.MustCompile(
		`^(?:[+-]?(?:\d+(?:_\d+)*(?:\.(?:\d+(?:_\d+)*)?)?|\.\d+(?:_\d+)*)(?:[eE][+-]?\d+(?:_\d+)*)?|'[^']*'|"[^"]*")$`,
	)
)

// listShape records whether the input was recognised as a literal list.
type listShape int

const (
	shapeNone listShape = iota
	shapeList
)

// Parse converts raw text into a list of positive sizes.
//
// Input shaped like a literal list ("[100, 500]" or "(100, 500)") is taken
// as-is: every element must be a positive integer (digit groups such as
// 1_000 are allowed), there is no fallback once the shape matches. Anything else is scanned token by token after dropping
// "KB" units and bracket characters. The result must also pass Validate.
func Parse(raw string) ([]int, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, errNoValues()
	}

	values, shape, err := parseLiteralList(text)
	if shape != shapeList {
		values, err = parseTokens(text)
	}
	if err != nil {
		return nil, err
	}
	return Validate(values, "sizes")
}

// parseLiteralList reports shapeNone when text is not a well-formed
// bracketed list of literals. Content errors are only returned with shapeList.
func parseLiteralList(text string) ([]int, listShape, error) {
	if len(text) < 2 {
		return nil, shapeNone, nil
	}

	open, closing := text[0], text[len(text)-1]
	if !(open == '[' && closing == ']') && !(open == '(' && closing == ')') {
		return nil, shapeNone, nil
	}

	body := strings.TrimSpace(text[1 : len(text)-1])
	if body == "" {
		return nil, shapeList, errNoValues()
	}

	elements := strings.Split(body, ",")
	trailingComma := false
	if strings.TrimSpace(elements[len(elements)-1]) == "" {
		trailingComma = true
		elements = elements[:len(elements)-1]
	}
	if len(elements) == 0 {
		return nil, shapeNone, nil
	}

	for i, element := range elements {
		element = strings.TrimSpace(element)
		if !literalPattern.MatchString(element) {
			return nil, shapeNone, nil
		}
		elements[i] = element
	}

	// "(100)" is a parenthesised value rather than a one-element list.
	if open == '(' && len(elements) == 1 && !trailingComma {
		return nil, shapeNone, nil
	}

	values := make([]int, 0, len(elements))
	for _, element := range elements {
		if !literalIntegerPattern.MatchString(element) {
			return nil, shapeList, fmt.Errorf("%w: %s is not an integer", ErrInvalidInput, element)
		}
		value, err := toPositive(strings.ReplaceAll(element, "_", ""))
		if err != nil {
			return nil, shapeList, err
		}
		values = append(values, value)
	}

	return values, shapeList, nil
}

func parseTokens(text string) ([]int, error) {
	normalized := strings.TrimSpace(unitPattern.ReplaceAllString(text, ""))
	normalized = strings.Trim(normalized, bracketChars)

	values := make([]int, 0)
	for _, token := range separatorPattern.Split(normalized, -1) {
		cleaned := strings.Trim(strings.TrimSpace(token), bracketChars)
		if cleaned == "" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(cleaned), "kb") {
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-2])
		}

		if !integerPattern.MatchString(cleaned) {
			return nil, fmt.Errorf(
				"%w: %q is not a number; use numbers separated by commas or spaces, e.g. 100, 500, 200 or [100, 500, 200]",
				ErrInvalidInput, token,
			)
		}
		value, err := toPositive(cleaned)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if len(values) == 0 {
		return nil, errNoValues()
	}
	return values, nil
}

func toPositive(token string) (int, error) {
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidInput, token)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: sizes must be positive integers, got %d", ErrInvalidInput, value)
	}
	return value, nil
}

func errNoValues() error {
	return fmt.Errorf("%w: provide at least one size value", ErrInvalidInput)
}
