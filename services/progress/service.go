package progressService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elearn/database"
	"elearn/lock"
	"elearn/logger"
	"elearn/models"
	courseModels "elearn/models/course"
	"elearn/notify"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns every read and write of progress documents.
type Service struct {
	db          *gorm.DB
	locker      lock.Locker
	notifier    notify.Notifier
	maxAttempts int
}

// Default is the instance the HTTP controllers use.
var Default *Service

func New(db *gorm.DB, locker lock.Locker, notifier notify.Notifier) *Service {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{db: db, locker: locker, notifier: notifier, maxAttempts: 3}
}

// Init builds a Service and installs it as Default.
func Init(db *gorm.DB, locker lock.Locker, notifier notify.Notifier) *Service {
	Default = New(db, locker, notifier)
	return Default
}

// SubtopicRef addresses a leaf by its full path in the course tree.
type SubtopicRef struct {
	UnitID     string
	TopicID    string
	SubtopicID string
}

func (r SubtopicRef) validate() error {
	for name, id := range map[string]string{"unitId": r.UnitID, "topicId": r.TopicID, "subtopicId": r.SubtopicID} {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%w: malformed %s %q", ErrInvalidInput, name, id)
		}
	}
	return nil
}

type CompletionUpdate struct {
	IsCompleted bool
	Notes       *string
	TimeSpent   int // minutes to add
}

// CourseProgressView is what a learner sees for one course. Progress is an
// unsaved skeleton when IsEnrolled is false.
type CourseProgressView struct {
	Progress   *courseModels.Progress `json:"progress"`
	IsEnrolled bool                   `json:"isEnrolled"`
}

func progressKey(userID, courseID uint) string {
	return fmt.Sprintf("%d:%d", userID, courseID)
}

func newProgress(userID uint, c *courseModels.Course, at time.Time) *courseModels.Progress {
	p := &courseModels.Progress{
		UserID:     userID,
		CourseID:   c.ID,
		Status:     courseModels.StatusEnrolled,
		EnrolledAt: at,
	}
	Recompute(p, c)
	return p
}

func checkUser(tx *gorm.DB, userID uint) error {
	var user models.User
	err := tx.Select("id").Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return err
}

func loadPublishedCourse(tx *gorm.DB, courseID uint) (*courseModels.Course, error) {
	var c courseModels.Course
	err := tx.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func findProgress(tx *gorm.DB, userID, courseID uint, forUpdate bool) (*courseModels.Progress, error) {
	q := tx
	if forUpdate && database.IsPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p courseModels.Progress
	if err := q.Where("user_id = ? AND course_id = ?", userID, courseID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// saveConditional writes the whole document only if nobody bumped its
// version since it was read.
func saveConditional(tx *gorm.DB, p *courseModels.Progress, readVersion int) error {
	res := tx.Model(&courseModels.Progress{}).
		Where("id = ? AND version = ?", p.ID, readVersion).
		Updates(map[string]interface{}{
			"units":               p.Units,
			"overall_progress":    p.OverallProgress,
			"completed_subtopics": p.CompletedSubtopics,
			"total_subtopics":     p.TotalSubtopics,
			"status":              p.Status,
			"last_accessed_at":    p.LastAccessedAt,
			"completed_at":        p.CompletedAt,
			"total_time_spent":    p.TotalTimeSpent,
			"structure_version":   p.StructureVersion,
			"version":             readVersion + 1,
			"updated_at":          nowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStale
	}
	p.Version = readVersion + 1
	return nil
}

// Initialize creates the all-incomplete document for (user, course). An
// existing document is returned untouched with created=false.
func (s *Service) Initialize(ctx context.Context, userID, courseID uint) (*courseModels.Progress, bool, error) {
	unlock, err := s.locker.Lock(ctx, progressKey(userID, courseID))
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var (
		result  *courseModels.Progress
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUser(tx, userID); err != nil {
			return err
		}
		c, err := loadPublishedCourse(tx, courseID)
		if err != nil {
			return err
		}

		existing, err := findProgress(tx, userID, courseID, false)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := newProgress(userID, c, nowFunc())
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// another instance enrolled first
			existing, err := findProgress(tx, userID, courseID, false)
			if err != nil {
				return err
			}
			result = existing
			return nil
		}
		result, created = p, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Log.Info("progress initialized", "userId", userID, "courseId", courseID)
	}
	return result, created, nil
}

// CourseProgress reads the learner's document without writing anything.
func (s *Service) CourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgressView, error) {
	db := s.db.WithContext(ctx)
	if err := checkUser(db, userID); err != nil {
		return nil, err
	}
	c, err := loadPublishedCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	p, err := findProgress(db, userID, courseID, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CourseProgressView{Progress: newProgress(userID, c, time.Time{}), IsEnrolled: false}, nil
	}
	if err != nil {
		return nil, err
	}
	Recompute(p, c)
	return &CourseProgressView{Progress: p, IsEnrolled: true}, nil
}

// mutation runs against a reconciled document inside the write transaction.
type mutation func(p *courseModels.Progress, c *courseModels.Course) error

// write serialises on (user, course), loads or creates the document, applies
// fn, recomputes and saves. A lost optimistic race reruns the whole sequence.
func (s *Service) write(ctx context.Context, userID, courseID uint, fn mutation) (*courseModels.Progress, error) {
	unlock, err := s.locker.Lock(ctx, progressKey(userID, courseID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		p, before, err := s.writeOnce(ctx, userID, courseID, fn)
		if errors.Is(err, errStale) {
			logger.Log.Warn("progress write lost a race, retrying", "userId", userID, "courseId", courseID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		if before != courseModels.StatusCompleted && p.Status == courseModels.StatusCompleted {
			s.notifyCompleted(p)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: user %d course %d", ErrConflict, userID, courseID)
}

func (s *Service) writeOnce(ctx context.Context, userID, courseID uint, fn mutation) (*courseModels.Progress, string, error) {
	var (
		p      *courseModels.Progress
		before string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUser(tx, userID); err != nil {
			return err
		}
		c, err := loadPublishedCourse(tx, courseID)
		if err != nil {
			return err
		}

		p, err = findProgress(tx, userID, courseID, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = newProgress(userID, c, nowFunc())
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStale
			}
		} else if err != nil {
			return err
		}

		before = p.Status
		readVersion := p.Version
		Recompute(p, c)
		if err := fn(p, c); err != nil {
			return err
		}
		Recompute(p, c)
		at := nowFunc()
		p.LastAccessedAt = &at
		return saveConditional(tx, p, readVersion)
	})
	if err != nil {
		return nil, "", err
	}
	return p, before, nil
}

func (s *Service) notifyCompleted(p *courseModels.Progress) {
	evt := notify.CourseCompleted{UserID: p.UserID, CourseID: p.CourseID, CompletedAt: *p.CompletedAt}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.CourseCompleted(ctx, evt); err != nil {
			logger.Log.Warn("completion notification failed", "userId", evt.UserID, "courseId", evt.CourseID, "error", err)
		}
	}()
}

// SetSubtopicCompletion flips one leaf and recomputes every ancestor. The
// document is created with a full skeleton on the first write.
func (s *Service) SetSubtopicCompletion(ctx context.Context, userID, courseID uint, ref SubtopicRef, upd CompletionUpdate) (*courseModels.Progress, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if upd.TimeSpent < 0 {
		return nil, fmt.Errorf("%w: timeSpent must not be negative", ErrInvalidInput)
	}

	var flipped bool
	p, err := s.write(ctx, userID, courseID, func(p *courseModels.Progress, c *courseModels.Course) error {
		flipped = false
		if _, ok := c.FindSubtopic(ref.UnitID, ref.TopicID, ref.SubtopicID); !ok {
			return fmt.Errorf("%w: subtopic %s", ErrNotFound, ref.SubtopicID)
		}
		entry := findSubtopic(p, ref.UnitID, ref.TopicID, ref.SubtopicID)
		if entry == nil {
			return fmt.Errorf("%w: subtopic %s", ErrNotFound, ref.SubtopicID)
		}

		switch {
		case upd.IsCompleted && !entry.IsCompleted:
			at := nowFunc()
			entry.IsCompleted = true
			entry.CompletedAt = &at
			flipped = true
		case !upd.IsCompleted:
			entry.IsCompleted = false
			entry.CompletedAt = nil
		}
		if upd.Notes != nil {
			entry.Notes = *upd.Notes
		}
		entry.TimeSpent += upd.TimeSpent
		return nil
	})
	if err != nil {
		return nil, err
	}

	if flipped || upd.TimeSpent > 0 {
		completed := 0
		if flipped {
			completed = 1
		}
		if err := RecordStudy(ctx, s.db, userID, completed, upd.TimeSpent); err != nil {
			logger.Log.Warn("study stats update failed", "userId", userID, "error", err)
		}
	}
	return p, nil
}

// ToggleBookmark flips the bookmark flag of one leaf.
func (s *Service) ToggleBookmark(ctx context.Context, userID, courseID uint, ref SubtopicRef) (*courseModels.Progress, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return s.write(ctx, userID, courseID, func(p *courseModels.Progress, c *courseModels.Course) error {
		entry := findSubtopic(p, ref.UnitID, ref.TopicID, ref.SubtopicID)
		if entry == nil {
			return fmt.Errorf("%w: subtopic %s", ErrNotFound, ref.SubtopicID)
		}
		entry.IsBookmarked = !entry.IsBookmarked
		return nil
	})
}
