package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndustryForSkill(t *testing.T) {
	cases := map[string]string{
		"React":              "Tech",
		"JavaScript":         "Tech",
		"Frontend Testing":   "Tech",
		"Python":             "Data Science",
		"Data Analysis":      "Data Science",
		"Machine Learning":   "Data Science",
		"UI Design":          "Design",
		"UX Research":        "Design",
		"Digital Marketing":  "Marketing",
		"Sales":              "Marketing",
		"Project Management": "Business",
		"Build Automation":   "General",
		"Go":                 "General",
	}
	for skill, want := range cases {
		assert.Equal(t, want, IndustryForSkill(skill), skill)
	}
}

func TestMatch_SkillLevels(t *testing.T) {
	res := Match(Analysis{Skills: []string{"Go", "React", "Python", "Figma", "SQL", "Docker", "Kubernetes", "go"}})

	require.Len(t, res.Skills, 6)
	assert.Equal(t, SkillLevel{Name: "Go", Level: 95, Industry: "General"}, res.Skills[0])
	assert.Equal(t, SkillLevel{Name: "React", Level: 90, Industry: "Tech"}, res.Skills[1])
	assert.Equal(t, 70, res.Skills[5].Level)
}

func TestMatch_RanksByCoverage(t *testing.T) {
	res := Match(Analysis{Skills: []string{"Docker", "Kubernetes", "AWS", "Linux", "Terraform", "CI/CD pipelines"}})

	require.Len(t, res.Matches, 4)
	top := res.Matches[0]
	assert.Equal(t, "DevOps Engineer", top.Title)
	assert.Equal(t, "Apple", top.Company)
	assert.Equal(t, 100, top.Match)
	assert.Equal(t, []string{"Docker", "Kubernetes", "CI/CD pipelines"}, top.Skills)
	for _, m := range res.Matches[1:] {
		assert.Less(t, m.Match, top.Match)
	}
}

func TestMatch_IsDeterministic(t *testing.T) {
	a := Analysis{Skills: []string{"Python", "Machine Learning", "SQL", "Statistics"}}
	assert.Equal(t, Match(a), Match(a))
}

func TestMatch_NoSkills(t *testing.T) {
	res := Match(Analysis{})
	assert.Empty(t, res.Skills)
	require.Len(t, res.Matches, 4)
	// Ties keep catalogue order.
	assert.Equal(t, "Senior Software Engineer", res.Matches[0].Title)
	for _, m := range res.Matches {
		assert.Equal(t, 50, m.Match)
		assert.Empty(t, m.Skills)
	}
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 50, matchScore(0, 5))
	assert.Equal(t, 60, matchScore(1, 5))
	assert.Equal(t, 100, matchScore(5, 5))
	assert.Equal(t, 57, matchScore(1, 7)) // 7.14 rounds down
	assert.Equal(t, 63, matchScore(2, 8)) // 12.5 rounds half up
}
