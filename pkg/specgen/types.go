// Package specgen turns a conversation transcript into a markdown project
// specification using keyword and regular-expression heuristics.
package specgen

import (
	"fmt"
	"strings"

	"github.com/grovetools/devlog/errors"
)

// ProjectType selects the document template.
type ProjectType string

const (
	WebApp        ProjectType = "web_app"
	AISystem      ProjectType = "ai_system"
	TradingSystem ProjectType = "trading_system"
	General       ProjectType = "general"
)

// ProjectTypes lists every valid ProjectType.
var ProjectTypes = []ProjectType{WebApp, AISystem, TradingSystem, General}

// ParseProjectType validates s.
func ParseProjectType(s string) (ProjectType, error) {
	for _, t := range ProjectTypes {
		if string(t) == s {
			return t, nil
		}
	}
	names := make([]string, len(ProjectTypes))
	for i, t := range ProjectTypes {
		names[i] = string(t)
	}
	return "", errors.InvalidInput(fmt.Sprintf("invalid project type %q (choose from %s)", s, strings.Join(names, ", ")))
}

// Field names a list extracted by the rule table.
type Field string

const (
	Requirements   Field = "requirements"
	Architecture   Field = "architecture"
	Risks          Field = "risks"
	SuccessMetrics Field = "success_metrics"
	UserStories    Field = "user_stories"
	Features       Field = "features"
)

// TechCategory is one group of detected technologies.
type TechCategory struct {
	Name  string
	Items []string
}

// KeyValue is an ordered timeline or budget entry.
type KeyValue struct {
	Key   string
	Value string
}

// Analysis is everything extracted from one transcript.
type Analysis struct {
	ProjectType ProjectType
	Fields      map[Field][]string
	TechStack   []TechCategory
	Timeline    []KeyValue
	Budget      []KeyValue
}

// List returns the fragments extracted for f.
func (a *Analysis) List(f Field) []string {
	return a.Fields[f]
}
