package resume

import (
	"sort"
	"strings"
	"unicode"
)

const (
	topSkills      = 6
	topMatches     = 4
	skillsPerMatch = 3
)

// SkillLevel is one highlighted skill with its industry.
type SkillLevel struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Industry string `json:"industry"`
}

// CareerMatch is a suggested role with how well the resume covers it.
type CareerMatch struct {
	Title   string   `json:"title"`
	Match   int      `json:"match"`
	Company string   `json:"company"`
	Skills  []string `json:"skills"`
}

// MatchResult is the career matching card content.
type MatchResult struct {
	Skills  []SkillLevel  `json:"skills"`
	Matches []CareerMatch `json:"matches"`
}

type careerProfile struct {
	title    string
	company  string
	keywords []string
}

var careers = []careerProfile{
	{"Senior Software Engineer", "Google", []string{"go", "java", "javascript", "typescript", "python", "software", "system design"}},
	{"Data Scientist", "Microsoft", []string{"python", "data", "machine learning", "statistics", "sql"}},
	{"Product Manager", "Amazon", []string{"product", "management", "roadmap", "agile", "communication"}},
	{"UX Designer", "Meta", []string{"design", "ux", "ui", "figma", "user research"}},
	{"DevOps Engineer", "Apple", []string{"docker", "kubernetes", "ci/cd", "aws", "linux", "terraform"}},
	{"Machine Learning Engineer", "Netflix", []string{"machine learning", "python", "tensorflow", "pytorch", "data"}},
	{"Full Stack Developer", "Uber", []string{"react", "node", "javascript", "sql", "html", "css", "frontend", "backend"}},
	{"Technical Lead", "Airbnb", []string{"leadership", "architecture", "management", "mentoring", "project"}},
}

var industryRules = []struct {
	industry string
	keywords []string
}{
	{"Tech", []string{"react", "javascript", "frontend"}},
	{"Data Science", []string{"python", "data", "machine learning"}},
	{"Design", []string{"design", "ui", "ux"}},
	{"Marketing", []string{"marketing", "sales"}},
	{"Business", []string{"management", "project"}},
}

// IndustryForSkill maps a skill to its industry by keyword; the first matching rule wins.
func IndustryForSkill(skill string) string {
	s := strings.ToLower(skill)
	for _, rule := range industryRules {
		for _, kw := range rule.keywords {
			if hasTerm(s, kw) {
				return rule.industry
			}
		}
	}
	return "General"
}

// Match builds the skill highlights and the best career matches for an analysis.
// Results depend only on the analysis, so the same resume always yields the same card.
func Match(analysis Analysis) MatchResult {
	skills := cleanList(analysis.Skills, true)

	levels := make([]SkillLevel, 0, topSkills)
	for i, name := range skills {
		if i == topSkills {
			break
		}
		// Earlier skills are the ones the resume leads with.
		levels = append(levels, SkillLevel{
			Name:     name,
			Level:    95 - 5*i,
			Industry: IndustryForSkill(name),
		})
	}

	type scored struct {
		idx     int
		covered int
		skills  []string
	}
	ranked := make([]scored, 0, len(careers))
	for i, c := range careers {
		covered, matched := coverage(c.keywords, skills)
		ranked = append(ranked, scored{idx: i, covered: covered, skills: matched})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := careers[ranked[i].idx], careers[ranked[j].idx]
		return ranked[i].covered*len(cj.keywords) > ranked[j].covered*len(ci.keywords)
	})

	matches := make([]CareerMatch, 0, topMatches)
	for _, r := range ranked[:topMatches] {
		c := careers[r.idx]
		matches = append(matches, CareerMatch{
			Title:   c.title,
			Match:   matchScore(r.covered, len(c.keywords)),
			Company: c.company,
			Skills:  r.skills,
		})
	}

	return MatchResult{Skills: levels, Matches: matches}
}

// coverage counts the keywords hit by at least one skill and returns up to three of those skills.
func coverage(keywords, skills []string) (int, []string) {
	covered := 0
	matched := make([]string, 0, skillsPerMatch)
	used := make(map[string]bool, len(skills))
	for _, kw := range keywords {
		hit := false
		for _, s := range skills {
			if !hasTerm(strings.ToLower(s), kw) {
				continue
			}
			hit = true
			if !used[s] && len(matched) < skillsPerMatch {
				used[s] = true
				matched = append(matched, s)
			}
		}
		if hit {
			covered++
		}
	}
	return covered, matched
}

// matchScore scales keyword coverage into 50..100, rounding half up.
func matchScore(covered, total int) int {
	if total == 0 {
		return 50
	}
	return 50 + (50*covered*2+total)/(2*total)
}

// hasTerm reports whether kw occurs in s starting at a word boundary. Keywords of two
// letters or fewer must also end at one, so "ui" does not match "build" and "go" does
// not match "google".
func hasTerm(s, kw string) bool {
	for from := 0; from <= len(s)-len(kw); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(kw)
		startOK := i == 0 || !isWordByte(s[i-1])
		endOK := len(kw) > 2 || end == len(s) || !isWordByte(s[end])
		if startOK && endOK {
			return true
		}
		from = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b < 0x80 && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}
