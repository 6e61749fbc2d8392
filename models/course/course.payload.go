package course

import "github.com/google/uuid"

// CourseInput is the admin create/update body. Node ids are optional and
// generated when absent.
type CourseInput struct {
	Title        string      `json:"title" validate:"required,min=3,max=200"`
	Description  string      `json:"description" validate:"max=5000"`
	Category     string      `json:"category" validate:"max=100"`
	Difficulty   string      `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Author       string      `json:"author" validate:"max=100"`
	ThumbnailURL string      `json:"thumbnailUrl" validate:"omitempty,url"`
	IsPublished  *bool       `json:"isPublished"`
	Units        []UnitInput `json:"units" validate:"dive"`
}

type UnitInput struct {
	ID          string       `json:"id" validate:"omitempty,uuid"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Topics      []TopicInput `json:"topics" validate:"dive"`
}

type TopicInput struct {
	ID          string          `json:"id" validate:"omitempty,uuid"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Subtopics   []SubtopicInput `json:"subtopics" validate:"dive"`
}

type SubtopicInput struct {
	ID               string          `json:"id" validate:"omitempty,uuid"`
	Title            string          `json:"title" validate:"required"`
	VideoURL         string          `json:"videoUrl" validate:"omitempty,url"`
	Difficulty       string          `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	EstimatedMinutes int             `json:"estimatedMinutes" validate:"gte=0"`
	Resources        []ResourceInput `json:"resources" validate:"dive"`
}

type ResourceInput struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// DuplicateIDs returns every node id that appears more than once.
func (in *CourseInput) DuplicateIDs() []string {
	seen := map[string]int{}
	for _, u := range in.Units {
		seen[u.ID]++
		for _, t := range u.Topics {
			seen[t.ID]++
			for _, s := range t.Subtopics {
				seen[s.ID]++
			}
		}
	}
	var dups []string
	for id, n := range seen {
		if id != "" && n > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// BuildUnits converts the input tree, generating ids for new nodes.
func (in *CourseInput) BuildUnits() []Unit {
	units := make([]Unit, 0, len(in.Units))
	for _, u := range in.Units {
		unit := Unit{ID: idOrNew(u.ID), Title: u.Title, Description: u.Description, Topics: make([]Topic, 0, len(u.Topics))}
		for _, t := range u.Topics {
			topic := Topic{ID: idOrNew(t.ID), Title: t.Title, Description: t.Description, Subtopics: make([]Subtopic, 0, len(t.Subtopics))}
			for _, s := range t.Subtopics {
				sub := Subtopic{
					ID:               idOrNew(s.ID),
					Title:            s.Title,
					VideoURL:         s.VideoURL,
					Difficulty:       s.Difficulty,
					EstimatedMinutes: s.EstimatedMinutes,
				}
				for _, r := range s.Resources {
					sub.Resources = append(sub.Resources, Resource{Title: r.Title, URL: r.URL})
				}
				topic.Subtopics = append(topic.Subtopics, sub)
			}
			unit.Topics = append(unit.Topics, topic)
		}
		units = append(units, unit)
	}
	return units
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// SameStructure reports whether two trees have identical node ids in the
// same positions. Titles and metadata do not count.
func SameStructure(a, b []Unit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || len(a[i].Topics) != len(b[i].Topics) {
			return false
		}
		for j := range a[i].Topics {
			ta, tb := a[i].Topics[j], b[i].Topics[j]
			if ta.ID != tb.ID || len(ta.Subtopics) != len(tb.Subtopics) {
				return false
			}
			for k := range ta.Subtopics {
				if ta.Subtopics[k].ID != tb.Subtopics[k].ID {
					return false
				}
			}
		}
	}
	return true
}
