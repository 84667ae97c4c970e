// Package resume turns resume text into a structured analysis and career matches.
package resume

import "strings"

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// Experience is one role entry.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

// Analysis is the structured reading of a resume.
type Analysis struct {
	Skills          []string     `json:"skills"`
	Education       []Education  `json:"education"`
	Experience      []Experience `json:"experience"`
	Summary         string       `json:"summary"`
	Recommendations []string     `json:"recommendations"`
}

// normalize trims strings, drops blank and duplicate skills, and replaces nil slices with empty ones.
func (a *Analysis) normalize() {
	a.Skills = cleanList(a.Skills, true)
	a.Recommendations = cleanList(a.Recommendations, false)
	if a.Education == nil {
		a.Education = []Education{}
	}
	if a.Experience == nil {
		a.Experience = []Experience{}
	}
	a.Summary = strings.TrimSpace(a.Summary)
}

func cleanList(in []string, dedupe bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if dedupe {
			key := strings.ToLower(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}

const promptTemplate = `Analyze this resume and extract information in JSON format for a career development platform called "Skill Horizon".

Resume content:
%s

Respond with a JSON object of this shape:
{
  "skills": ["skill1", "skill2"],
  "education": [{"degree": "degree name", "institution": "institution name", "period": "start - end year"}],
  "experience": [{"title": "job title", "company": "company name", "period": "start - end period", "description": "brief description of role"}],
  "summary": "a brief professional summary based on the resume",
  "recommendations": ["career development suggestion"]
}

Extract all technical and soft skills. Use empty arrays for sections the resume does not have.
Return ONLY the JSON object, no additional text.`
