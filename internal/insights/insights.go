// Package insights holds the heuristic career-insight services behind the
// /ai endpoints and the optional OpenAI-backed text completer.
package insights

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrNoAnalysis is returned by LatestCV before any CV has been analysed.
var ErrNoAnalysis = errors.New("no CV analysis yet")

// Provider computes candidate insights. Implementations must be safe for
// concurrent use.
type Provider interface {
	Match(candidateSkills, jobSkills []string) MatchResult
	BlindSpots(skills []string, targetRole string) BlindSpotsResult
	Growth(currentLevel string, goals []string) GrowthResult
	SimulateInterview(role, difficulty string, questions int) InterviewResult
	AnalyseProfile(summary string) ProfileResult
	AnalyseCV(text string) CVResult
	LatestCV() (CVResult, error)
}

// MatchResult is the skill overlap between a candidate and a job.
type MatchResult struct {
	MatchScore float64  `json:"match_score"`
	Overlap    []string `json:"overlap"`
	Missing    []string `json:"missing"`
}

// BlindSpotsResult lists skills a role expects that the candidate lacks.
type BlindSpotsResult struct {
	BlindSpots      []string `json:"blind_spots"`
	Recommendations []string `json:"recommendations"`
}

// GrowthResult is a roadmap with one milestone per goal.
type GrowthResult struct {
	CurrentLevel string   `json:"current_level"`
	Roadmap      []string `json:"roadmap"`
	GoalCount    int      `json:"goal_count"`
}

// InterviewResult is a set of practice questions.
type InterviewResult struct {
	Questions            []string `json:"questions"`
	Difficulty           string   `json:"difficulty"`
	ComplexityMultiplier float64  `json:"complexity_multiplier"`
}

// ProfileResult summarises a profile blurb.
type ProfileResult struct {
	WordCount int      `json:"word_count"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

// CVResult holds the keywords extracted from a CV and generic suggestions.
type CVResult struct {
	Keywords    []string `json:"keywords"`
	Suggestions []string `json:"suggestions"`
}

const (
	maxKeywords        = 20
	strengthsThreshold = 20
	gapsThreshold      = 50
	DefaultDifficulty  = "medium"
	MaxQuestions       = 5
)

// roleExpectations maps a lowercased role to the skills it expects.
var roleExpectations = map[string][]string{
	"data scientist": {"docker", "ml", "python", "sql", "statistics"},
}

var difficultyFactors = map[string]float64{
	"easy":   0.8,
	"medium": 1.0,
	"hard":   1.2,
}

var cvSuggestions = []string{
	"Add measurable achievements",
	"Include recent relevant certifications",
	"Tailor summary to target role",
}

// Static is the built-in heuristic Provider. The zero value is ready to use.
type Static struct {
	mu     sync.RWMutex
	latest *CVResult
}

// NewStatic returns a Static provider.
func NewStatic() *Static {
	return &Static{}
}

// Match compares skills case-insensitively. The score is the share of job
// skills the candidate has, as a percentage rounded to two decimals, and 0
// when the job lists no skills.
func (s *Static) Match(candidateSkills, jobSkills []string) MatchResult {
	candidate := lowerSet(candidateSkills)
	job := lowerSet(jobSkills)

	res := MatchResult{Overlap: []string{}, Missing: []string{}}
	for skill := range job {
		if candidate[skill] {
			res.Overlap = append(res.Overlap, skill)
		} else {
			res.Missing = append(res.Missing, skill)
		}
	}
	slices.Sort(res.Overlap)
	slices.Sort(res.Missing)

	if len(job) > 0 {
		res.MatchScore = math.Round(float64(len(res.Overlap))/float64(len(job))*100*100) / 100
	}
	return res
}

// BlindSpots returns the expected skills for targetRole that are missing
// from skills. Unknown roles have no expectations.
func (s *Static) BlindSpots(skills []string, targetRole string) BlindSpotsResult {
	known := lowerSet(skills)
	res := BlindSpotsResult{BlindSpots: []string{}, Recommendations: []string{}}
	for _, skill := range roleExpectations[strings.ToLower(targetRole)] {
		if !known[skill] {
			res.BlindSpots = append(res.BlindSpots, skill)
			res.Recommendations = append(res.Recommendations, "Study "+skill)
		}
	}
	return res
}

// Growth builds one milestone per goal.
func (s *Static) Growth(currentLevel string, goals []string) GrowthResult {
	roadmap := make([]string, len(goals))
	for i, g := range goals {
		roadmap[i] = "Milestone: progress toward " + g
	}
	return GrowthResult{CurrentLevel: currentLevel, Roadmap: roadmap, GoalCount: len(goals)}
}

// SimulateInterview returns up to MaxQuestions questions about role.
// Unknown difficulties use a multiplier of 1.0.
func (s *Static) SimulateInterview(role, difficulty string, questions int) InterviewResult {
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	base := []string{
		fmt.Sprintf("Describe a challenge you faced in %s and how you solved it.", role),
		fmt.Sprintf("How do you keep your %s skills up to date?", role),
		fmt.Sprintf("Explain a recent project related to %s.", role),
		fmt.Sprintf("What would you improve in your last %s project?", role),
		fmt.Sprintf("How do you handle tight deadlines in %s?", role),
	}
	n := min(max(questions, 0), len(base))

	factor, ok := difficultyFactors[difficulty]
	if !ok {
		factor = 1.0
	}
	return InterviewResult{Questions: base[:n], Difficulty: difficulty, ComplexityMultiplier: factor}
}

// AnalyseProfile counts words in summary. More than 20 words earns the
// communication strengths; fewer than 50 flags missing technical depth.
func (s *Static) AnalyseProfile(summary string) ProfileResult {
	words := len(strings.Fields(summary))
	res := ProfileResult{WordCount: words, Strengths: []string{"Concise"}, Gaps: []string{}}
	if words > strengthsThreshold {
		res.Strengths = []string{"Clear communication", "Domain familiarity"}
	}
	if words < gapsThreshold {
		res.Gaps = []string{"Expand technical depth"}
	}
	return res
}

// AnalyseCV extracts up to 20 sorted, lowercased keywords from words longer
// than three characters and records the result as the latest analysis.
func (s *Static) AnalyseCV(text string) CVResult {
	seen := map[string]bool{}
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		w = strings.ToLower(strings.Trim(w, ".,"))
		if w != "" {
			seen[w] = true
		}
	}
	keywords := make([]string, 0, len(seen))
	for w := range seen {
		keywords = append(keywords, w)
	}
	slices.Sort(keywords)
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	res := CVResult{Keywords: keywords, Suggestions: slices.Clone(cvSuggestions)}
	s.mu.Lock()
	s.latest = &res
	s.mu.Unlock()
	return res
}

// LatestCV returns the most recent AnalyseCV result.
func (s *Static) LatestCV() (CVResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return CVResult{}, ErrNoAnalysis
	}
	return *s.latest, nil
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = true
	}
	return set
}
