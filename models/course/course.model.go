package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is an authored content tree. Units, topics and subtopics are kept
// in order inside a single JSON document column.
type Course struct {
	gorm.Model
	Title            string                    `json:"title"`
	Description      string                    `json:"description" gorm:"type:text"`
	Category         string                    `json:"category"`
	Difficulty       string                    `json:"difficulty"` // beginner, intermediate, advanced
	Author           string                    `json:"author"`
	ThumbnailURL     string                    `json:"thumbnailUrl"`
	IsPublished      bool                      `json:"isPublished" gorm:"default:false"`
	StructureVersion int                       `json:"structureVersion" gorm:"default:1"`
	Units            datatypes.JSONSlice[Unit] `json:"units"`
	IsDeleted        bool                      `json:"-" gorm:"default:false"`
}

type Unit struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Topics      []Topic `json:"topics"`
}

type Topic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Subtopics   []Subtopic `json:"subtopics"`
}

// Subtopic is the leaf of the tree and the unit of completion tracking.
type Subtopic struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	VideoURL         string     `json:"videoUrl,omitempty"`
	Difficulty       string     `json:"difficulty,omitempty"`
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
	Resources        []Resource `json:"resources,omitempty"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SubtopicCount returns the number of leaves in the course tree.
func (c *Course) SubtopicCount() int {
	n := 0
	for _, u := range c.Units {
		for _, t := range u.Topics {
			n += len(t.Subtopics)
		}
	}
	return n
}

// FindSubtopic reports whether subtopicID lives under unitID/topicID.
func (c *Course) FindSubtopic(unitID, topicID, subtopicID string) (*Subtopic, bool) {
	for ui := range c.Units {
		if c.Units[ui].ID != unitID {
			continue
		}
		for ti := range c.Units[ui].Topics {
			if c.Units[ui].Topics[ti].ID != topicID {
				continue
			}
			for si := range c.Units[ui].Topics[ti].Subtopics {
				if c.Units[ui].Topics[ti].Subtopics[si].ID == subtopicID {
					return &c.Units[ui].Topics[ti].Subtopics[si], true
				}
			}
		}
	}
	return nil, false
}
