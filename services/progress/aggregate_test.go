package progressService

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	courseModels "elearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoByTwo is two units, one topic each, two subtopics per topic.
func twoByTwo() *courseModels.Course {
	return &courseModels.Course{
		StructureVersion: 1,
		Units: []courseModels.Unit{
			{ID: "u1", Topics: []courseModels.Topic{{ID: "t1", Subtopics: []courseModels.Subtopic{{ID: "s1"}, {ID: "s2"}}}}},
			{ID: "u2", Topics: []courseModels.Topic{{ID: "t2", Subtopics: []courseModels.Subtopic{{ID: "s3"}, {ID: "s4"}}}}},
		},
	}
}

func complete(p *courseModels.Progress, ids ...string) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for ui := range p.Units {
		for ti := range p.Units[ui].Topics {
			for si := range p.Units[ui].Topics[ti].Subtopics {
				s := &p.Units[ui].Topics[ti].Subtopics[si]
				if want[s.SubtopicID] {
					s.IsCompleted = true
				}
			}
		}
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(3, 0))
	assert.Equal(t, 25, Percentage(1, 4))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 13, Percentage(1, 8))
	assert.Equal(t, 100, Percentage(5, 5))
}

func TestSkeletonMirrorsCourse(t *testing.T) {
	units := Skeleton(twoByTwo())
	require.Len(t, units, 2)
	assert.Equal(t, "u1", units[0].UnitID)
	require.Len(t, units[1].Topics, 1)
	assert.Equal(t, "t2", units[1].Topics[0].TopicID)
	require.Len(t, units[1].Topics[0].Subtopics, 2)
	for _, u := range units {
		for _, tp := range u.Topics {
			for _, s := range tp.Subtopics {
				assert.False(t, s.IsCompleted)
			}
		}
	}
}

func TestRecomputeOneLeaf(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s1")
	Recompute(p, c)

	assert.Equal(t, 50, p.Units[0].Topics[0].CompletionPercentage)
	assert.Equal(t, 50, p.Units[0].CompletionPercentage)
	assert.Equal(t, 0, p.Units[1].CompletionPercentage)
	assert.Equal(t, 0, p.Units[1].Topics[0].CompletionPercentage)
	assert.Equal(t, 25, p.OverallProgress)
	assert.Equal(t, 1, p.CompletedSubtopics)
	assert.Equal(t, 4, p.TotalSubtopics)
	assert.Equal(t, courseModels.StatusInProgress, p.Status)
	assert.Nil(t, p.CompletedAt)
}

func TestRecomputeAllLeaves(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s1", "s2", "s3", "s4")
	Recompute(p, c)

	assert.Equal(t, 100, p.OverallProgress)
	for _, u := range p.Units {
		assert.Equal(t, 100, u.CompletionPercentage)
		for _, tp := range u.Topics {
			assert.Equal(t, 100, tp.CompletionPercentage)
		}
	}
	assert.Equal(t, courseModels.StatusCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s2", "s3")
	Recompute(p, c)
	first := *p
	firstUnits := append([]courseModels.UnitProgress(nil), p.Units...)

	Recompute(p, c)
	assert.Equal(t, first.OverallProgress, p.OverallProgress)
	assert.Equal(t, []courseModels.UnitProgress(firstUnits), []courseModels.UnitProgress(p.Units))
}

func TestRecomputeEmptyCourseIsZero(t *testing.T) {
	c := &courseModels.Course{
		Units: []courseModels.Unit{{ID: "u1", Topics: []courseModels.Topic{{ID: "t1"}}}},
	}
	p := &courseModels.Progress{}
	Recompute(p, c)

	assert.Equal(t, 0, p.OverallProgress)
	assert.Equal(t, 0, p.Units[0].CompletionPercentage)
	assert.Equal(t, 0, p.Units[0].Topics[0].CompletionPercentage)
	assert.Equal(t, courseModels.StatusEnrolled, p.Status)
}

func TestRecomputeHealsMissingEntries(t *testing.T) {
	c := twoByTwo()
	// only the first unit was ever materialised, and only one of its leaves
	p := &courseModels.Progress{
		Units: []courseModels.UnitProgress{{
			UnitID: "u1",
			Topics: []courseModels.TopicProgress{{
				TopicID:   "t1",
				Subtopics: []courseModels.SubtopicProgress{{SubtopicID: "s1", IsCompleted: true, Notes: "keep me"}},
			}},
		}},
	}
	Recompute(p, c)

	require.Len(t, p.Units, 2)
	require.Len(t, p.Units[0].Topics[0].Subtopics, 2)
	assert.Equal(t, "keep me", p.Units[0].Topics[0].Subtopics[0].Notes)
	assert.False(t, p.Units[0].Topics[0].Subtopics[1].IsCompleted)
	assert.Equal(t, 25, p.OverallProgress)
}

func TestRecomputeDropsRemovedNodes(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s1", "s4")
	Recompute(p, c)
	assert.Equal(t, 50, p.OverallProgress)

	// s4 is removed and s5 added to the second topic
	c.StructureVersion = 2
	c.Units[1].Topics[0].Subtopics = []courseModels.Subtopic{{ID: "s3"}, {ID: "s5"}}
	Recompute(p, c)

	assert.Equal(t, 25, p.OverallProgress)
	assert.Equal(t, 0, p.Units[1].CompletionPercentage)
	assert.Equal(t, "s5", p.Units[1].Topics[0].Subtopics[1].SubtopicID)
	assert.Equal(t, 2, p.StructureVersion)
}

func TestRecomputeKeepsStateOfMovedSubtopic(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s2")
	Recompute(p, c)

	c.Units[0].Topics[0].Subtopics = []courseModels.Subtopic{{ID: "s1"}}
	c.Units[1].Topics[0].Subtopics = append(c.Units[1].Topics[0].Subtopics, courseModels.Subtopic{ID: "s2"})
	Recompute(p, c)

	assert.Equal(t, 0, p.Units[0].CompletionPercentage)
	assert.Equal(t, 33, p.Units[1].CompletionPercentage)
	assert.Equal(t, 25, p.OverallProgress)
}

func TestRecomputeClearsCompletedAtBelowHundred(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	complete(p, "s1", "s2", "s3", "s4")
	Recompute(p, c)
	require.NotNil(t, p.CompletedAt)

	p.Units[0].Topics[0].Subtopics[0].IsCompleted = false
	Recompute(p, c)
	assert.Nil(t, p.CompletedAt)
	assert.Equal(t, 75, p.OverallProgress)
}

func TestRecomputeSumsTimeSpent(t *testing.T) {
	c := twoByTwo()
	p := &courseModels.Progress{}
	Recompute(p, c)
	p.Units[0].Topics[0].Subtopics[0].TimeSpent = 15
	p.Units[1].Topics[0].Subtopics[1].TimeSpent = 10
	Recompute(p, c)
	assert.Equal(t, 25, p.TotalTimeSpent)
}

// randomCourse builds a tree of up to four units, each with up to four
// topics of up to six subtopics. Empty units and topics are allowed.
func randomCourse(rng *rand.Rand) *courseModels.Course {
	c := &courseModels.Course{StructureVersion: 1}
	units := rng.Intn(5)
	for u := 0; u < units; u++ {
		unit := courseModels.Unit{ID: fmt.Sprintf("u%d", u)}
		topics := rng.Intn(5)
		for tp := 0; tp < topics; tp++ {
			topic := courseModels.Topic{ID: fmt.Sprintf("u%d-t%d", u, tp)}
			leaves := rng.Intn(7)
			for s := 0; s < leaves; s++ {
				topic.Subtopics = append(topic.Subtopics, courseModels.Subtopic{ID: fmt.Sprintf("u%d-t%d-s%d", u, tp, s)})
			}
			unit.Topics = append(unit.Topics, topic)
		}
		c.Units = append(c.Units, unit)
	}
	return c
}

func roundedShare(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func TestRecomputeMatchesDirectCountOnRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(20260519))

	for i := 0; i < 500; i++ {
		c := randomCourse(rng)
		chosen := map[string]bool{}
		for _, u := range c.Units {
			for _, tp := range u.Topics {
				for _, s := range tp.Subtopics {
					if rng.Intn(2) == 0 {
						chosen[s.ID] = true
					}
				}
			}
		}

		p := &courseModels.Progress{}
		Recompute(p, c)
		ids := make([]string, 0, len(chosen))
		for id := range chosen {
			ids = append(ids, id)
		}
		complete(p, ids...)
		Recompute(p, c)

		require.Len(t, p.Units, len(c.Units), "tree %d", i)
		courseDone, courseTotal := 0, 0
		for ui, u := range c.Units {
			unitDone, unitTotal := 0, 0
			require.Len(t, p.Units[ui].Topics, len(u.Topics), "tree %d unit %s", i, u.ID)
			for ti, tp := range u.Topics {
				topicDone := 0
				for _, s := range tp.Subtopics {
					if chosen[s.ID] {
						topicDone++
					}
				}
				assert.Equal(t, roundedShare(topicDone, len(tp.Subtopics)), p.Units[ui].Topics[ti].CompletionPercentage, "tree %d topic %s", i, tp.ID)
				unitDone += topicDone
				unitTotal += len(tp.Subtopics)
			}
			assert.Equal(t, roundedShare(unitDone, unitTotal), p.Units[ui].CompletionPercentage, "tree %d unit %s", i, u.ID)
			courseDone += unitDone
			courseTotal += unitTotal
		}

		overall := roundedShare(courseDone, courseTotal)
		assert.Equal(t, overall, p.OverallProgress, "tree %d", i)
		assert.Equal(t, courseDone, p.CompletedSubtopics, "tree %d", i)
		assert.Equal(t, courseTotal, p.TotalSubtopics, "tree %d", i)

		switch {
		case overall == 100:
			assert.Equal(t, courseModels.StatusCompleted, p.Status, "tree %d", i)
		case overall > 0:
			assert.Equal(t, courseModels.StatusInProgress, p.Status, "tree %d", i)
		default:
			assert.Equal(t, courseModels.StatusEnrolled, p.Status, "tree %d", i)
		}
	}
}
