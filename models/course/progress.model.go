package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusEnrolled   = "ENROLLED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Progress is one user's mirror of a course tree. Exactly one row exists per
// (user, course) pair.
type Progress struct {
	gorm.Model
	UserID             uint                              `json:"userId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID           uint                              `json:"courseId" gorm:"uniqueIndex:idx_progress_user_course;index;not null"`
	Units              datatypes.JSONSlice[UnitProgress] `json:"units"`
	OverallProgress    int                               `json:"overallProgress" gorm:"default:0"`
	CompletedSubtopics int                               `json:"completedSubtopics" gorm:"default:0"`
	TotalSubtopics     int                               `json:"totalSubtopics" gorm:"default:0"`
	Status             string                            `json:"status" gorm:"default:'ENROLLED'"`
	EnrolledAt         time.Time                         `json:"enrolledAt"`
	LastAccessedAt     *time.Time                        `json:"lastAccessedAt"`
	CompletedAt        *time.Time                        `json:"completedAt"`
	TotalTimeSpent     int                               `json:"totalTimeSpent" gorm:"default:0"` // minutes
	StructureVersion   int                               `json:"structureVersion" gorm:"default:0"`
	Version            int                               `json:"-" gorm:"default:0"`
}

type UnitProgress struct {
	UnitID               string          `json:"unitId"`
	CompletionPercentage int             `json:"completionPercentage"`
	Topics               []TopicProgress `json:"topics"`
}

type TopicProgress struct {
	TopicID              string             `json:"topicId"`
	CompletionPercentage int                `json:"completionPercentage"`
	Subtopics            []SubtopicProgress `json:"subtopics"`
}

type SubtopicProgress struct {
	SubtopicID   string     `json:"subtopicId"`
	IsCompleted  bool       `json:"isCompleted"`
	CompletedAt  *time.Time `json:"completedAt"`
	IsBookmarked bool       `json:"isBookmarked"`
	Notes        string     `json:"notes"`
	TimeSpent    int        `json:"timeSpent"` // minutes
}

func (Progress) TableName() string {
	return "progresses"
}
