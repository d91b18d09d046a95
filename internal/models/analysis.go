package models

// Severity levels reported by the analysis pipeline. SeverityUnknown marks
// replies the normalizer could not grade at all.
const (
	SeverityMild     = "Mild"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
	SeverityUnknown  = "Unknown"
)

// AnalysisResult is the fixed four-field shape every analysis reply is
// normalized into. All fields are always populated; Recommendations may be
// empty only for the total-fallback case.
type AnalysisResult struct {
	Condition       string   `json:"condition"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

// RawAnalysis is the legacy v1 response shape that passes the model reply
// through unparsed. Kept alongside the structured array contract.
type RawAnalysis struct {
	Analysis string `json:"analysis"`
	Success  bool   `json:"success"`
}
