package scorer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor/engadvisor/catalog"
	"github.com/egor/engadvisor/models"
	"github.com/egor/engadvisor/scorer"
)

func loadPrograms(t *testing.T) []models.Program {
	t.Helper()
	c, err := catalog.Load("")
	require.NoError(t, err)
	return c.Programs()
}

func names(results []models.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Program.Name
	}
	return out
}

func TestScoreRoboticsAndAI(t *testing.T) {
	results := scorer.Score("I love robotics and AI", loadPrograms(t))

	require.Len(t, results, scorer.Limit)
	top := results[0]
	assert.Equal(t, "Robotics and Autonomous Systems", top.Program.Name)
	assert.Equal(t, 14, top.Score)
	assert.Equal(t,
		[]string{"robotics", "AI", "robotics engineer", "AI engineer", "robotics", "and"},
		top.MatchedKeywords)

	assert.Equal(t, "Mechatronics Engineering", results[1].Program.Name)
	assert.Equal(t, 5, results[1].Score)

	// Equal scores keep catalog order.
	assert.Equal(t, []string{
		"Nanoscience and Technology",
		"Quantum Science and Engineering",
		"Materials Science and Engineering",
	}, names(results[2:]))
}

func TestScoreNoOverlap(t *testing.T) {
	assert.Empty(t, scorer.Score("zzz", loadPrograms(t)))
	assert.Empty(t, scorer.Score("", loadPrograms(t)))
}

func TestScoreSinglePrimaryKeyword(t *testing.T) {
	results := scorer.Score("ceramics", loadPrograms(t))

	require.Len(t, results, 1)
	assert.Equal(t, "Materials Science and Engineering", results[0].Program.Name)
	assert.Equal(t, 3, results[0].Score)
	assert.Equal(t, []string{"ceramics"}, results[0].MatchedKeywords)
}

func TestScoreLimitAndOrdering(t *testing.T) {
	programs := loadPrograms(t)
	queries := []string{
		"engineering",
		"I want to design aircraft and rockets for space flight",
		"management and leadership of construction projects",
	}

	for _, q := range queries {
		results := scorer.Score(q, programs)
		assert.LessOrEqual(t, len(results), scorer.Limit, q)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, q)
		}
	}

	results := scorer.Score("engineering", programs)
	require.Len(t, results, scorer.Limit)
	assert.Equal(t, "Computer Engineering", results[0].Program.Name)
	assert.Equal(t, models.ProgramTypeMinor, results[0].Program.Type)
	assert.Equal(t, "Global Engineering Leadership", results[1].Program.Name)
}

func TestScoreKeepsDuplicateMatches(t *testing.T) {
	results := scorer.Score("quantum", loadPrograms(t))

	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].Score)
	assert.Equal(t, []string{"quantum", "quantum engineer", "quantum"}, results[0].MatchedKeywords)
}

func TestScoreTierSemantics(t *testing.T) {
	programs := []models.Program{{
		Name:                 "Ocean Engineering",
		Type:                 models.ProgramTypeMajor,
		PrimaryKeywords:      []string{"marine"},
		SecondaryKeywords:    []string{"hydrodynamics"},
		CareerFocus:          []string{"naval architect"},
		IndustryApplications: []string{"shipbuilding"},
	}}

	// "architects" contains "architect" but is a different word, so the
	// career tier does not fire while substring tiers still do.
	results := scorer.Score("marine architects in shipbuilding", programs)
	require.Len(t, results, 1)
	assert.Equal(t, 3+1, results[0].Score)
	assert.Equal(t, []string{"marine", "shipbuilding"}, results[0].MatchedKeywords)

	results = scorer.Score("a naval career", programs)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Score)
	assert.Equal(t, []string{"naval architect"}, results[0].MatchedKeywords)

	results = scorer.Score("oceanography", programs)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"ocean"}, results[0].MatchedKeywords)
}

func TestCustomWeights(t *testing.T) {
	programs := []models.Program{{
		Name:            "Fire Protection Engineering",
		Type:            models.ProgramTypeMajor,
		PrimaryKeywords: []string{"fire safety"},
	}}
	w := scorer.DefaultWeights()
	w.Primary = 10
	w.ProgramName = 0

	results := w.Score("fire safety", programs)
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Score)
}
