package utils

import (
	"testing"

	courseModels "elearn/models/course"

	"github.com/stretchr/testify/assert"
)

func TestValidateStructNestedPaths(t *testing.T) {
	in := &courseModels.CourseInput{
		Title: "Go",
		Units: []courseModels.UnitInput{
			{Title: "Unit", Topics: []courseModels.TopicInput{{
				Title:     "Topic",
				Subtopics: []courseModels.SubtopicInput{{ID: "nope", Title: ""}},
			}}},
		},
	}

	errs := ValidateStruct(in)
	assert.Equal(t, "Title must be at least 3 characters long!", errs["title"])
	assert.Equal(t, "Id must be a valid id!", errs["units[0].topics[0].subtopics[0].id"])
	assert.Equal(t, "Title is required!", errs["units[0].topics[0].subtopics[0].title"])
}

func TestValidateStructValid(t *testing.T) {
	in := &courseModels.CourseInput{Title: "Distributed systems", Difficulty: "advanced"}
	assert.Nil(t, ValidateStruct(in))
}

func TestPaginationNormalize(t *testing.T) {
	p := &Pagination{}
	assert.Empty(t, p.Normalize())
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = &Pagination{Page: 3, Limit: 10}
	assert.Empty(t, p.Normalize())
	assert.Equal(t, 20, p.Offset())

	p = &Pagination{Page: -1, Limit: 500}
	errs := p.Normalize()
	assert.Contains(t, errs, "page")
	assert.Contains(t, errs, "limit")
}
