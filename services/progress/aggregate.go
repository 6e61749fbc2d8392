package progressService

import (
	"math"
	"time"

	courseModels "elearn/models/course"
)

var nowFunc = time.Now

// Percentage is round(100 * done / total), and 0 for an empty node.
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Skeleton builds an all-incomplete progress tree shaped like the course.
func Skeleton(c *courseModels.Course) []courseModels.UnitProgress {
	units := make([]courseModels.UnitProgress, 0, len(c.Units))
	for _, u := range c.Units {
		up := courseModels.UnitProgress{UnitID: u.ID, Topics: make([]courseModels.TopicProgress, 0, len(u.Topics))}
		for _, t := range u.Topics {
			tp := courseModels.TopicProgress{TopicID: t.ID, Subtopics: make([]courseModels.SubtopicProgress, 0, len(t.Subtopics))}
			for _, s := range t.Subtopics {
				tp.Subtopics = append(tp.Subtopics, courseModels.SubtopicProgress{SubtopicID: s.ID})
			}
			up.Topics = append(up.Topics, tp)
		}
		units = append(units, up)
	}
	return units
}

// Recompute reshapes p to the course tree and derives every percentage from
// the completed leaves. Entries missing from p are treated as incomplete and
// entries for nodes no longer in the course are dropped. Calling it again
// with the same completed set changes nothing.
func Recompute(p *courseModels.Progress, c *courseModels.Course) {
	reconcile(p, c)

	done, total, minutes := 0, 0, 0
	for ui := range p.Units {
		unit := &p.Units[ui]
		unitDone, unitTotal := 0, 0
		for ti := range unit.Topics {
			topic := &unit.Topics[ti]
			topicDone := 0
			for _, s := range topic.Subtopics {
				if s.IsCompleted {
					topicDone++
				}
				minutes += s.TimeSpent
			}
			topic.CompletionPercentage = Percentage(topicDone, len(topic.Subtopics))
			unitDone += topicDone
			unitTotal += len(topic.Subtopics)
		}
		unit.CompletionPercentage = Percentage(unitDone, unitTotal)
		done += unitDone
		total += unitTotal
	}

	p.CompletedSubtopics = done
	p.TotalSubtopics = total
	p.OverallProgress = Percentage(done, total)
	p.TotalTimeSpent = minutes
	p.StructureVersion = c.StructureVersion

	// Status follows the rounded overall so it always agrees with the
	// percentage the client sees.
	switch {
	case p.OverallProgress >= 100:
		p.Status = courseModels.StatusCompleted
		if p.CompletedAt == nil {
			at := nowFunc()
			p.CompletedAt = &at
		}
	case p.OverallProgress > 0:
		p.Status = courseModels.StatusInProgress
		p.CompletedAt = nil
	default:
		p.Status = courseModels.StatusEnrolled
		p.CompletedAt = nil
	}
}

// reconcile rebuilds p.Units in course order, keeping the per-subtopic state
// of every leaf that still exists (even if it moved to another topic).
func reconcile(p *courseModels.Progress, c *courseModels.Course) {
	existing := make(map[string]courseModels.SubtopicProgress)
	for _, u := range p.Units {
		for _, t := range u.Topics {
			for _, s := range t.Subtopics {
				existing[s.SubtopicID] = s
			}
		}
	}

	units := Skeleton(c)
	for ui := range units {
		for ti := range units[ui].Topics {
			subs := units[ui].Topics[ti].Subtopics
			for si := range subs {
				if prev, ok := existing[subs[si].SubtopicID]; ok {
					subs[si] = prev
				}
			}
		}
	}
	p.Units = units
}

// findSubtopic returns the progress entry for a subtopic addressed by its
// full path, after p has been reconciled.
func findSubtopic(p *courseModels.Progress, unitID, topicID, subtopicID string) *courseModels.SubtopicProgress {
	for ui := range p.Units {
		if p.Units[ui].UnitID != unitID {
			continue
		}
		for ti := range p.Units[ui].Topics {
			if p.Units[ui].Topics[ti].TopicID != topicID {
				continue
			}
			subs := p.Units[ui].Topics[ti].Subtopics
			for si := range subs {
				if subs[si].SubtopicID == subtopicID {
					return &subs[si]
				}
			}
		}
	}
	return nil
}
