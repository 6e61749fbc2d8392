package course

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUnitsKeepsAndGeneratesIDs(t *testing.T) {
	kept := uuid.NewString()
	in := &CourseInput{
		Title: "Course",
		Units: []UnitInput{{
			ID:    kept,
			Title: "Unit",
			Topics: []TopicInput{{
				Title: "Topic",
				Subtopics: []SubtopicInput{{
					Title:     "Leaf",
					Resources: []ResourceInput{{Title: "Docs", URL: "https://go.dev"}},
				}},
			}},
		}},
	}

	units := in.BuildUnits()
	require.Len(t, units, 1)
	assert.Equal(t, kept, units[0].ID)

	topic := units[0].Topics[0]
	_, err := uuid.Parse(topic.ID)
	assert.NoError(t, err)
	_, err = uuid.Parse(topic.Subtopics[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://go.dev", topic.Subtopics[0].Resources[0].URL)
}

func TestDuplicateIDs(t *testing.T) {
	id := uuid.NewString()
	in := &CourseInput{Units: []UnitInput{
		{ID: id, Topics: []TopicInput{{ID: uuid.NewString()}}},
		{Topics: []TopicInput{{ID: id}}},
		{},
	}}
	assert.Equal(t, []string{id}, in.DuplicateIDs())

	in.Units[1].Topics[0].ID = ""
	assert.Empty(t, in.DuplicateIDs())
}

func TestSameStructure(t *testing.T) {
	a := []Unit{{ID: "u1", Topics: []Topic{{ID: "t1", Subtopics: []Subtopic{{ID: "s1"}, {ID: "s2"}}}}}}
	b := []Unit{{ID: "u1", Title: "renamed", Topics: []Topic{{ID: "t1", Subtopics: []Subtopic{{ID: "s1", Title: "x"}, {ID: "s2"}}}}}}
	assert.True(t, SameStructure(a, b))

	b[0].Topics[0].Subtopics = b[0].Topics[0].Subtopics[:1]
	assert.False(t, SameStructure(a, b))

	c := []Unit{{ID: "u1", Topics: []Topic{{ID: "t1", Subtopics: []Subtopic{{ID: "s2"}, {ID: "s1"}}}}}}
	assert.False(t, SameStructure(a, c))
	assert.True(t, SameStructure(nil, []Unit{}))
}
