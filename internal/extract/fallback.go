package extract

import (
	"regexp"
	"strconv"
)

// Valid range for the bounded credit score.
const (
	scoreMin = 300
	scoreMax = 900
)

// scorePatterns are tried in order against the assembled context when the
// model omitted the score. Each pattern names the capture group holding the
// candidate. Vendor report headers print the score range and the score as
// one run of digits ("PERFORM CONSUMER 2.2300-900627" -> 627).
var scorePatterns = []struct {
	re    *regexp.Regexp
	group int
}{
	{regexp.MustCompile(`(?i)PERFORM\s+CONSUMER\s+[\d.]+\s*(\d{3})-(\d{3})\s*(\d{3})`), 3},
	{regexp.MustCompile(`(?i)(?:CRIF|CIBIL|HM)\s+(?:Score|SCORE).*?(\d{3})\b`), 1},
	{regexp.MustCompile(`(?i)(?:SCORE|Score).*?300[-\s]*900\s*(\d{3})`), 1},
}

// ResolveScoreFallback scans the assembled context with the ordered vendor
// patterns and returns the first candidate inside [300, 900]. A pattern
// whose candidate falls outside the range is discarded and the next pattern
// is tried; patterns are never merged.
func ResolveScoreFallback(text string) (int, bool) {
	for _, p := range scorePatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		score, err := strconv.Atoi(match[p.group])
		if err != nil {
			continue
		}
		if score >= scoreMin && score <= scoreMax {
			return score, true
		}
	}
	return 0, false
}
