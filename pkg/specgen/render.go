package specgen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.md.tmpl"))

const (
	emptyList      = "- (None identified from conversation)"
	emptyTechStack = "- (No specific technologies mentioned)"
	emptyTimeline  = "- (No timeline specified)"
	emptyBudget    = "- (No budget information mentioned)"
)

// Document is the data passed to a template; every section is preformatted
// markdown.
type Document struct {
	ProjectName    string
	Date           string
	Requirements   string
	TechStack      string
	Architecture   string
	Features       string
	UserStories    string
	Timeline       string
	Budget         string
	Risks          string
	SuccessMetrics string
}

// NewDocument formats a for rendering.
func NewDocument(a *Analysis, projectName string, now time.Time) Document {
	return Document{
		ProjectName:    projectName,
		Date:           now.Format("2006-01-02"),
		Requirements:   formatList(a.List(Requirements)),
		TechStack:      formatTechStack(a.TechStack),
		Architecture:   formatList(a.List(Architecture)),
		Features:       formatList(a.List(Features)),
		UserStories:    formatList(a.List(UserStories)),
		Timeline:       formatPairs(a.Timeline, emptyTimeline),
		Budget:         formatPairs(a.Budget, emptyBudget),
		Risks:          formatList(a.List(Risks)),
		SuccessMetrics: formatList(a.List(SuccessMetrics)),
	}
}

// Render fills the template for pt.
func Render(pt ProjectType, doc Document) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(pt)+".md.tmpl", doc); err != nil {
		return "", fmt.Errorf("render %s template: %w", pt, err)
	}
	return buf.String(), nil
}

func formatList(items []string) string {
	if len(items) == 0 {
		return emptyList
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func formatTechStack(cats []TechCategory) string {
	if len(cats) == 0 {
		return emptyTechStack
	}
	lines := make([]string, len(cats))
	for i, c := range cats {
		lines[i] = fmt.Sprintf("**%s:** %s", c.Name, strings.Join(c.Items, ", "))
	}
	return strings.Join(lines, "\n")
}

func formatPairs(pairs []KeyValue, empty string) string {
	if len(pairs) == 0 {
		return empty
	}
	lines := make([]string, len(pairs))
	for i, kv := range pairs {
		lines[i] = fmt.Sprintf("- %s: %s", kv.Key, kv.Value)
	}
	return strings.Join(lines, "\n")
}
