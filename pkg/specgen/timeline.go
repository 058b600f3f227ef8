package specgen

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	durationPattern  = regexp.MustCompile(`(?i)(\d+)\s+(?:weeks?|days?|months?)`)
	deadlinePattern  = regexp.MustCompile(`(?i)(?:deadline|due|launch|complete)\s+(?:by|in|within)\s+([^.\n]+)`)
	milestonePattern = regexp.MustCompile(`(?i)(?:phase|milestone|sprint)\s+(\d+)[:\s]*([^.\n]+)`)

	costPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)(?:budget|cost|price|expense):\s*\$?([^.\n]+)`),
		regexp.MustCompile(`(?i)(?:cheap|expensive|affordable|costly)`),
	}
)

// MaxCosts bounds the number of cost mentions kept.
const MaxCosts = 5

type orderedMap []KeyValue

// set replaces the value of an existing key in place or appends a new one.
func (m *orderedMap) set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, KeyValue{Key: key, Value: value})
}

// ExtractTimeline collects durations and deadlines under a single
// "duration" key (the last mention wins) and numbered milestones as
// milestone_<n>.
func ExtractTimeline(text string) []KeyValue {
	var m orderedMap
	for _, match := range durationPattern.FindAllStringSubmatch(text, -1) {
		m.set("duration", match[1])
	}
	for _, match := range deadlinePattern.FindAllStringSubmatch(text, -1) {
		m.set("duration", match[1])
	}
	for _, match := range milestonePattern.FindAllStringSubmatch(text, -1) {
		m.set(fmt.Sprintf("milestone_%d", len(m)), strings.Join(match[1:], " "))
	}
	return m
}

// ExtractBudget collects up to MaxCosts whole-match cost mentions.
func ExtractBudget(text string) []KeyValue {
	var costs []string
	for _, p := range costPatterns {
		costs = append(costs, p.FindAllString(text, -1)...)
	}
	if len(costs) == 0 {
		return nil
	}
	if len(costs) > MaxCosts {
		costs = costs[:MaxCosts]
	}
	return []KeyValue{{Key: "mentioned_costs", Value: strings.Join(costs, ", ")}}
}
