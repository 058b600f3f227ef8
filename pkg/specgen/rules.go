package specgen

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule extracts the first capture group of every match of Pattern into
// Field. Fragments shorter than MinLen characters are dropped.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
	MinLen  int
}

func rule(f Field, minLen int, pattern string) Rule {
	return Rule{Field: f, Pattern: regexp.MustCompile(`(?i)` + pattern), MinLen: minLen}
}

// Rules is applied in order. Within a field, earlier rules take precedence:
// their matches are listed first and later duplicates are dropped.
var Rules = []Rule{
	rule(Requirements, 11, `(?:need|want|require|must have|should)\s+(?:to\s+)?([^.!?\n]+)`),
	rule(Requirements, 11, `(?:goal|objective|purpose):\s*([^.\n]+)`),
	rule(Requirements, 11, `(?:user|customer|client)\s+(?:wants|needs|requires)\s+([^.\n]+)`),

	rule(Architecture, 11, `(?:architecture|design|pattern|approach):\s*([^.\n]+)`),
	rule(Architecture, 11, `(?:using|implementing|building with)\s+([^.\n]+)`),
	rule(Architecture, 11, `(?:decided to|chosen to|going with)\s+([^.\n]+)`),

	rule(Risks, 11, `(?:risk|problem|issue|challenge|concern):\s*([^.\n]+)`),
	rule(Risks, 11, `(?:might|could|may)\s+(?:fail|break|not work)\s+([^.\n]+)`),
	rule(Risks, 11, `(?:what if|concern about|worried about)\s+([^.\n]+)`),

	rule(SuccessMetrics, 6, `(?:success|metric|measure|goal):\s*([^.\n]+)`),
	rule(SuccessMetrics, 6, `(?:target|aim for|expecting)\s+(\d+[^.\n]*)`),
	rule(SuccessMetrics, 6, `(?:when this works|if successful)\s+([^.\n]+)`),

	rule(UserStories, 11, `(?:user|customer|client)\s+(?:can|will|should)\s+([^.\n]+)`),
	rule(UserStories, 11, `(?:as a|when a)\s+user\s+([^.\n]+)`),
	rule(UserStories, 11, `(?:users want to|people need to)\s+([^.\n]+)`),

	rule(Features, 11, `(?:feature|functionality|capability):\s*([^.\n]+)`),
	rule(Features, 11, `(?:will have|includes|supports)\s+([^.\n]+)`),
	rule(Features, 11, `(?:build|create|implement)\s+([^.\n]+)`),
}

// FieldCaps bounds the number of fragments kept per field.
var FieldCaps = map[Field]int{
	Requirements:   10,
	Architecture:   8,
	Risks:          6,
	SuccessMetrics: 5,
	UserStories:    8,
	Features:       10,
}

// Apply runs rules over text and returns the capped, de-duplicated
// fragments per field.
func Apply(rules []Rule, text string) map[Field][]string {
	out := make(map[Field][]string)
	seen := make(map[Field]map[string]bool)

	for _, r := range rules {
		if seen[r.Field] == nil {
			seen[r.Field] = make(map[string]bool)
		}
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			frag := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(frag) < r.MinLen || seen[r.Field][frag] {
				continue
			}
			seen[r.Field][frag] = true
			out[r.Field] = append(out[r.Field], frag)
		}
	}

	for f, items := range out {
		if limit, ok := FieldCaps[f]; ok && len(items) > limit {
			out[f] = items[:limit]
		}
	}
	return out
}
