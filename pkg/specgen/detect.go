package specgen

import "strings"

type typeKeywords struct {
	projectType ProjectType
	keywords    []string
}

// detection is checked in order; the first type with any keyword present wins.
var detection = []typeKeywords{
	{WebApp, []string{"resume", "ats", "job", "hiring"}},
	{TradingSystem, []string{"trading", "algorithm", "market", "stock"}},
	{AISystem, []string{"ai", "machine learning", "neural", "gpt"}},
}

// DetectProjectType picks a template by case-insensitive substring search.
// Keywords are not word-bounded, so "ai" also matches "said".
func DetectProjectType(text string) ProjectType {
	lower := strings.ToLower(text)
	for _, d := range detection {
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				return d.projectType
			}
		}
	}
	return General
}
