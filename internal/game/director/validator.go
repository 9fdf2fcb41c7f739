package director

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// PlaceholderPatterns match template labels the model emits when it ignores
// the choice rules.
var PlaceholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:\d+\.\s*)?(?:choice|option|alternative|pick)\s*(?:[a-c]|\d)$`),
	regexp.MustCompile(`(?i)^[a-c]\.?$`),
}

func IsPlaceholderChoice(choice string) bool {
	s := strings.TrimSpace(choice)
	if s == "" {
		return false
	}
	for _, p := range PlaceholderPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// ValidateChoices reports whether choices are free of placeholders. Offending
// entries are logged; the turn is never blocked.
func ValidateChoices(logger *zap.Logger, choices []string) bool {
	var bad []string
	for _, c := range choices {
		if IsPlaceholderChoice(c) {
			bad = append(bad, c)
		}
	}
	if len(bad) == 0 {
		return true
	}
	if logger != nil {
		logger.Warn("Detected placeholder choices that may indicate LLM hallucination",
			zap.Strings("choices", bad),
		)
	}
	return false
}
