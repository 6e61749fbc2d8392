package progressService

import (
	"context"
	"time"

	courseModels "elearn/models/course"
)

type DashboardCourse struct {
	CourseID           uint       `json:"courseId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ThumbnailURL       string     `json:"thumbnailUrl"`
	Difficulty         string     `json:"difficulty"`
	IsEnrolled         bool       `json:"isEnrolled"`
	Status             string     `json:"status,omitempty"`
	OverallProgress    int        `json:"overallProgress"`
	CompletedSubtopics int        `json:"completedSubtopics"`
	TotalSubtopics     int        `json:"totalSubtopics"`
	LastAccessedAt     *time.Time `json:"lastAccessedAt"`
}

type Dashboard struct {
	Courses           []DashboardCourse `json:"courses"`
	TotalCourses      int               `json:"totalCourses"`
	EnrolledCourses   int               `json:"enrolledCourses"`
	CoursesInProgress int               `json:"coursesInProgress"`
	CoursesCompleted  int               `json:"coursesCompleted"`
}

// Dashboard joins every published course with the caller's progress. It is
// read-only: courses without a document report 0% and nothing is created.
func (s *Service) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	if err := checkUser(db, userID); err != nil {
		return nil, err
	}

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ? AND is_published = ?", false, true).Order("id asc").Find(&courses).Error; err != nil {
		return nil, err
	}

	var docs []courseModels.Progress
	if err := db.Where("user_id = ?", userID).Find(&docs).Error; err != nil {
		return nil, err
	}
	byCourse := make(map[uint]*courseModels.Progress, len(docs))
	for i := range docs {
		byCourse[docs[i].CourseID] = &docs[i]
	}

	out := &Dashboard{Courses: make([]DashboardCourse, 0, len(courses))}
	for i := range courses {
		c := &courses[i]
		row := DashboardCourse{
			CourseID:       c.ID,
			Title:          c.Title,
			Description:    c.Description,
			ThumbnailURL:   c.ThumbnailURL,
			Difficulty:     c.Difficulty,
			TotalSubtopics: c.SubtopicCount(),
		}
		if p, ok := byCourse[c.ID]; ok {
			Recompute(p, c)
			row.IsEnrolled = true
			row.Status = p.Status
			row.OverallProgress = p.OverallProgress
			row.CompletedSubtopics = p.CompletedSubtopics
			row.TotalSubtopics = p.TotalSubtopics
			row.LastAccessedAt = p.LastAccessedAt
			out.EnrolledCourses++
			switch p.Status {
			case courseModels.StatusCompleted:
				out.CoursesCompleted++
			case courseModels.StatusInProgress:
				out.CoursesInProgress++
			}
		}
		out.Courses = append(out.Courses, row)
	}
	out.TotalCourses = len(out.Courses)
	return out, nil
}
