package specgen

import "strings"

type techKeywords struct {
	name     string
	keywords []string
}

var techTable = []techKeywords{
	{"Frontend", []string{"react", "vue", "angular", "typescript", "javascript", "html", "css", "tailwind"}},
	{"Backend", []string{"node", "python", "django", "flask", "express", "fastapi", "n8n"}},
	{"Database", []string{"postgresql", "mysql", "mongodb", "supabase", "firebase"}},
	{"APIs", []string{"rest", "graphql", "claude", "openai", "stripe", "webhook"}},
	{"Tools", []string{"docker", "kubernetes", "git", "vscode", "claude code"}},
}

// ExtractTechStack returns, per category, the keywords found in text in
// table order. Categories with no hits are omitted.
func ExtractTechStack(text string) []TechCategory {
	lower := strings.ToLower(text)
	var out []TechCategory
	for _, cat := range techTable {
		var items []string
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				items = append(items, kw)
			}
		}
		if len(items) > 0 {
			out = append(out, TechCategory{Name: cat.name, Items: items})
		}
	}
	return out
}
