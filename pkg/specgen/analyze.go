package specgen

// Analyze extracts every field from text. The project type is detected
// unless forced is non-empty.
func Analyze(text string, forced ProjectType) *Analysis {
	pt := forced
	if pt == "" {
		pt = DetectProjectType(text)
	}
	return &Analysis{
		ProjectType: pt,
		Fields:      Apply(Rules, text),
		TechStack:   ExtractTechStack(text),
		Timeline:    ExtractTimeline(text),
		Budget:      ExtractBudget(text),
	}
}
