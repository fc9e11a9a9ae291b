package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Section tags emitted by the model, in protocol order.
const (
	TagAnalysis     = "ANALYSIS"
	TagWeaknesses   = "WEAKNESSES"
	TagImprovements = "IMPROVEMENTS"
	TagVersionA     = "VERSION_A"
	TagVersionB     = "VERSION_B"
	TagVersionC     = "VERSION_C"
)

// sectionMarker matches any section delimiter in the model output.
var sectionMarker = regexp.MustCompile(`\[[A-Z_]+\]`)

// AnalysisScores holds the four 0-100 scores from the [ANALYSIS] section.
type AnalysisScores struct {
	Clarity     int `json:"clarity"`
	Specificity int `json:"specificity"`
	Constraints int `json:"constraints"`
	Context     int `json:"context"`
}

// SegmentedResponse is the structured view of a raw model response. It is
// derived, never stored; every field defaults to its zero value when the
// corresponding section has not arrived yet.
type SegmentedResponse struct {
	Scores       AnalysisScores `json:"scores"`
	Weaknesses   string         `json:"weaknesses"`
	Improvements string         `json:"improvements"`
	VersionA     string         `json:"version_a"`
	VersionB     string         `json:"version_b"`
	VersionC     string         `json:"version_c"`
}

// Section extracts the body of a tagged section from the raw text. The body
// runs from just past the first occurrence of the tag marker to the next
// section marker, or to the end of the text while the stream is still
// arriving. A missing tag yields an empty string, never an error.
func Section(text, tag string) string {
	marker := "[" + tag + "]"
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}

	body := text[idx+len(marker):]
	if loc := sectionMarker.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return strings.TrimSpace(body)
}

// Segment parses the tagged response protocol out of the accumulated text.
// It is stateless and idempotent: calling it on any growing prefix of the
// same response returns the best-effort parse of what is present, which is
// what allows progressive rendering during streaming.
func Segment(text string) SegmentedResponse {
	return SegmentedResponse{
		Scores:       parseScores(Section(text, TagAnalysis)),
		Weaknesses:   Section(text, TagWeaknesses),
		Improvements: Section(text, TagImprovements),
		VersionA:     Section(text, TagVersionA),
		VersionB:     Section(text, TagVersionB),
		VersionC:     Section(text, TagVersionC),
	}
}

// parseScores reads the analysis body line by line. Each line splits on the
// first colon; unrecognized labels are ignored and malformed values fall
// back to zero.
func parseScores(analysis string) AnalysisScores {
	var scores AnalysisScores
	if analysis == "" {
		return scores
	}

	for _, line := range strings.Split(analysis, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.TrimSpace(label) {
		case "Clarity":
			scores.Clarity = parseScore(value)
		case "Specificity":
			scores.Specificity = parseScore(value)
		case "Constraints":
			scores.Constraints = parseScore(value)
		case "Context":
			scores.Context = parseScore(value)
		}
	}
	return scores
}

// parseScore tolerates trailing junk after the number ("85%", "90/100") and
// clamps everything outside 0-100 back to zero.
func parseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(raw[:end])
	if err != nil || n < 0 || n > 100 {
		return 0
	}
	return n
}
