package progressService

import (
	"context"
	"errors"
	"fmt"

	"elearn/logger"
	courseModels "elearn/models/course"

	"gorm.io/gorm"
)

// ResyncCourse reshapes every progress document of a course to its current
// tree. It returns how many documents were rewritten.
func (s *Service) ResyncCourse(ctx context.Context, courseID uint) (int, error) {
	var c courseModels.Course
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	if err != nil {
		return 0, err
	}

	var userIDs []uint
	if err := s.db.WithContext(ctx).Model(&courseModels.Progress{}).Where("course_id = ?", courseID).Pluck("user_id", &userIDs).Error; err != nil {
		return 0, err
	}

	synced := 0
	for _, userID := range userIDs {
		if err := s.resyncOne(ctx, userID, &c); err != nil {
			logger.Log.Error("progress resync failed", "userId", userID, "courseId", courseID, "error", err)
			continue
		}
		synced++
	}
	logger.Log.Info("course progress resynced", "courseId", courseID, "documents", synced, "structureVersion", c.StructureVersion)
	return synced, nil
}

func (s *Service) resyncOne(ctx context.Context, userID uint, c *courseModels.Course) error {
	unlock, err := s.locker.Lock(ctx, progressKey(userID, c.ID))
	if err != nil {
		return err
	}
	defer unlock()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := findProgress(tx, userID, c.ID, true)
			if err != nil {
				return err
			}
			readVersion := p.Version
			Recompute(p, c)
			return saveConditional(tx, p, readVersion)
		})
		if !errors.Is(err, errStale) {
			return err
		}
	}
	return ErrConflict
}

// ResyncStale resyncs every course that has documents built against an
// older structure version.
func (s *Service) ResyncStale(ctx context.Context) (int, error) {
	var courseIDs []uint
	err := s.db.WithContext(ctx).Model(&courseModels.Progress{}).
		Joins("JOIN courses ON courses.id = progresses.course_id").
		Where("progresses.structure_version < courses.structure_version AND courses.is_deleted = ? AND courses.deleted_at IS NULL", false).
		Distinct().
		Pluck("progresses.course_id", &courseIDs).Error
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range courseIDs {
		n, err := s.ResyncCourse(ctx, id)
		if err != nil {
			logger.Log.Error("stale course resync failed", "courseId", id, "error", err)
			continue
		}
		total += n
	}
	return total, nil
}
