package llm

import (
	"errors"
	"strings"
)

// ErrNoJSON indicates no JSON object could be located in the model output.
var ErrNoJSON = errors.New("no JSON object in model output")

// ExtractJSONObject trims model output to the first '{' through the last '}'.
// Models often wrap JSON in prose or code fences; everything outside the
// outermost braces is discarded.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}
