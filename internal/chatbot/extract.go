package chatbot

import (
	"regexp"
	"strings"
)

// Keywords that mark a message as a specification question. Only messages
// containing one of these trigger a database spec lookup.
var specKeywords = []string{
	"spec", "specification", "detail", "info", "mileage", "power",
	"engine", "price", "weight", "speed", "brake", "suspension",
}

var comparePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:compare|between|which is better)\s+(?:the\s+)?([a-z0-9 ]+?)\s+(?:and|vs\.?|versus|or)\s+([a-z0-9 ]+?)(?:\s+(?:bikes?|motorcycles?|scooters?))?\s*[?.!]*$`),
	regexp.MustCompile(`(?i)^(?:the\s+)?([a-z0-9 ]+?)\s+(?:vs\.?|versus)\s+([a-z0-9 ]+?)(?:\s+(?:bikes?|motorcycles?|scooters?))?\s*[?.!]*$`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:of|for|about)\s+(?:the\s+)?([a-z0-9 ]+?)\s*[?.!]*$`),
	regexp.MustCompile(`(?i)^(?:the\s+)?([a-z0-9 ]+?)\s+(?:specs?|specifications?|details?)\s*[?.!]*$`),
}

// hasSpecKeyword reports whether the message contains any spec keyword.
func hasSpecKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range specKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractComparisonPair pulls two bike names out of a comparison question.
// Returns "", "" when the message is not a comparison.
func extractComparisonPair(message string) (string, string) {
	for _, p := range comparePatterns {
		if m := p.FindStringSubmatch(message); m != nil {
			first := cleanBikeName(m[1])
			second := cleanBikeName(m[2])
			if first != "" && second != "" {
				return first, second
			}
		}
	}
	return "", ""
}

// extractBikeName pulls a single bike name out of a specification question.
// Returns "" when no name can be found.
func extractBikeName(message string) string {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(message); m != nil {
			if name := cleanBikeName(m[1]); name != "" {
				return name
			}
		}
	}
	return ""
}

// cleanBikeName trims filler and trailing spec keywords from a captured
// bike name, so "pulsar mileage" becomes "pulsar".
func cleanBikeName(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	for len(words) > 0 {
		last := strings.ToLower(words[len(words)-1])
		if last == "bike" || last == "bikes" || last == "motorcycle" || last == "scooter" || isSpecKeyword(last) {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

func isSpecKeyword(word string) bool {
	for _, kw := range specKeywords {
		if word == kw || word == kw+"s" {
			return true
		}
	}
	return false
}
