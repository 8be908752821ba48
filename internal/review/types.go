package review

import "time"

// Kind distinguishes the two review shapes.
type Kind string

const (
	KindMergeRequest Kind = "merge_request"
	KindRepository   Kind = "repository"
)

// Section names for a single-change review, in the order the prompt
// requests them.
const (
	SectionSummary     = "Summary"
	SectionCodeQuality = "Code Quality"
	SectionSecurity    = "Security Concerns"
	SectionPerformance = "Performance"
	SectionSuggestions = "Suggestions"
	SectionAssessment  = "Overall Assessment"
)

// Additional section names for a whole-repository review.
const (
	SectionOverview      = "Project Overview"
	SectionArchitecture  = "Architecture"
	SectionBestPractices = "Best Practices"
	SectionIssues        = "Potential Issues"
	SectionRecommend     = "Recommendations"
)

// MergeRequestSections is the fixed ordered section set of a single-change
// review.
var MergeRequestSections = []string{
	SectionSummary,
	SectionCodeQuality,
	SectionSecurity,
	SectionPerformance,
	SectionSuggestions,
	SectionAssessment,
}

// RepositorySections is the fixed ordered section set of a whole-repository
// review.
var RepositorySections = []string{
	SectionOverview,
	SectionArchitecture,
	SectionCodeQuality,
	SectionSecurity,
	SectionPerformance,
	SectionBestPractices,
	SectionIssues,
	SectionRecommend,
}

// NoContentPlaceholder is what a repository review reports for a section the
// parser could not match.
const NoContentPlaceholder = "No content available for this section."

// Metadata describes how a review was produced.
type Metadata struct {
	FilesAnalyzed int       `json:"filesAnalyzed"`
	Focus         string    `json:"focus"`
	Depth         string    `json:"depth,omitempty"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model,omitempty"`
	TokensUsed    int       `json:"tokensUsed,omitempty"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// Result is a structured review recovered from a model's reply.
type Result struct {
	Kind     Kind              `json:"kind"`
	Sections map[string]string `json:"sections"`
	FullText string            `json:"fullText"`
	// Summary is derived for merge-request reviews only.
	Summary  string   `json:"summary,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// SectionNames returns the ordered section set for the result's kind.
func (r *Result) SectionNames() []string {
	if r.Kind == KindRepository {
		return RepositorySections
	}
	return MergeRequestSections
}
