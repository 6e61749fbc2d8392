package progressService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elearn/database"
	"elearn/models"
	courseModels "elearn/models/course"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const xpPerSubtopic = 10

// RecordStudy folds one study event into the user's informational stats:
// XP and level for newly completed subtopics, study minutes, and the daily
// streak. Counters are incremented in SQL so concurrent completions on
// different courses never overwrite each other.
func RecordStudy(ctx context.Context, db *gorm.DB, userID uint, completed, minutes int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if database.IsPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var user models.User
		if err := q.Select("id", "streak_days", "last_study_date").Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		at := nowFunc()
		gained := completed * xpPerSubtopic
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"streak_days":      nextStreak(user.StreakDays, user.LastStudyDate, at),
			"last_study_date":  at,
			"total_study_time": gorm.Expr("total_study_time + ?", minutes),
			"xp":               gorm.Expr("xp + ?", gained),
			"level":            gorm.Expr("(xp + ?) / 100 + 1", gained),
		}).Error
	})
}

// nextStreak: same day keeps the streak, the following day extends it, any
// longer gap starts over.
func nextStreak(current int, last *time.Time, at time.Time) int {
	if last == nil {
		return 1
	}
	today := now.With(at).BeginningOfDay()
	lastDay := now.With(last.In(at.Location())).BeginningOfDay()
	switch {
	case lastDay.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// ResetStaleStreaks zeroes the streak of everyone who has not studied since
// the start of yesterday.
func ResetStaleStreaks(ctx context.Context, db *gorm.DB) (int64, error) {
	cutoff := now.With(nowFunc()).BeginningOfDay().AddDate(0, 0, -1)
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("streak_days > ? AND (last_study_date IS NULL OR last_study_date < ?)", 0, cutoff).
		Update("streak_days", 0)
	return res.RowsAffected, res.Error
}

// UserStats is the learner's stats card.
type UserStats struct {
	StreakDays         int        `json:"streakDays"`
	LastStudyDate      *time.Time `json:"lastStudyDate"`
	TotalStudyTime     int        `json:"totalStudyTime"`
	XP                 int        `json:"xp"`
	Level              int        `json:"level"`
	EnrolledCourses    int        `json:"enrolledCourses"`
	CompletedCourses   int        `json:"completedCourses"`
	CompletedThisWeek  int        `json:"completedThisWeek"`
	CompletedSubtopics int        `json:"completedSubtopics"`
}

// Stats reads the user's counters and counts subtopics completed since the
// start of the current week.
func (s *Service) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	var docs []courseModels.Progress
	if err := db.Where("user_id = ?", userID).Find(&docs).Error; err != nil {
		return nil, err
	}

	stats := &UserStats{
		StreakDays:      user.StreakDays,
		LastStudyDate:   user.LastStudyDate,
		TotalStudyTime:  user.TotalStudyTime,
		XP:              user.XP,
		Level:           user.Level,
		EnrolledCourses: len(docs),
	}

	weekStart := now.With(nowFunc()).BeginningOfWeek()
	for _, p := range docs {
		if p.Status == courseModels.StatusCompleted {
			stats.CompletedCourses++
		}
		for _, u := range p.Units {
			for _, t := range u.Topics {
				for _, st := range t.Subtopics {
					if !st.IsCompleted {
						continue
					}
					stats.CompletedSubtopics++
					if st.CompletedAt != nil && !st.CompletedAt.Before(weekStart) {
						stats.CompletedThisWeek++
					}
				}
			}
		}
	}
	return stats, nil
}
