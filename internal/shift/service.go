package shift

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyClaimed = errors.New("job already claimed")
	ErrInvalidShift   = errors.New("invalid shift times")
	ErrRemoved        = errors.New("job removed")
	ErrForbidden      = errors.New("not your job")
	ErrNoPhoneNumbers = errors.New("no phone numbers found for user")
)

// StalePendingAfter is how long a PENDING job may sit unclaimed before
// the owner's next job-list read rewrites it to UNCLAIMED.
const StalePendingAfter = 72 * time.Hour

type Service struct {
	DB *gorm.DB
}

type CreateJobInput struct {
	BusinessName   string
	JobDescription string
	Category       string
	ShiftType      string
	Date           string
	StartTime      string
	EndTime        string
}

// CreateJob creates a PENDING job with its nested shift in one
// transaction. The category is normalized to lower case and the shift
// window must resolve before anything is written.
func (s *Service) CreateJob(ctx context.Context, userID uint64, in CreateJobInput) (*Job, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.BusinessName == "" || in.Category == "" || strings.TrimSpace(in.StartTime) == "" || strings.TrimSpace(in.EndTime) == "" {
		return nil, ErrInvalidShift
	}
	if strings.TrimSpace(in.Date) == "" {
		in.Date = time.Now().Format(dateLayout)
	}
	if in.ShiftType == "" {
		in.ShiftType = TypeCustom
	}

	sh := &Shift{
		Type:      in.ShiftType,
		Date:      strings.TrimSpace(in.Date),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
	}
	if _, err := ResolveWindow(sh); err != nil {
		return nil, err
	}

	j := &Job{
		UserID:         userID,
		BusinessName:   in.BusinessName,
		JobDescription: strings.TrimSpace(in.JobDescription),
		Category:       in.Category,
		Status:         StatusPending,
		Token:          uuid.NewString(),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(j).Error; err != nil {
			return err
		}
		sh.JobID = j.ID
		return tx.Create(sh).Error
	})
	if err != nil {
		return nil, err
	}
	j.Shift = sh
	return j, nil
}

// GetJob looks a job up by numeric id or by claim-link token.
func (s *Service) GetJob(ctx context.Context, idOrToken string) (*Job, error) {
	q := s.DB.WithContext(ctx).Preload("Shift")
	var j Job
	var err error
	if isDigits(idOrToken) {
		err = q.Where("id = ?", idOrToken).First(&j).Error
	} else {
		err = q.Where("token = ?", idOrToken).First(&j).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetOwnedJob fetches a job and enforces ownership.
func (s *Service) GetOwnedJob(ctx context.Context, userID, jobID uint64) (*Job, error) {
	var j Job
	err := s.DB.WithContext(ctx).Preload("Shift").Where("id = ?", jobID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if j.UserID != userID {
		return nil, ErrForbidden
	}
	return &j, nil
}

// Claim transitions an unclaimed job to CLAIMED. The status check and
// the write are a single conditional update, so two racing claims can
// never both win: the loser sees zero rows affected.
func (s *Service) Claim(ctx context.Context, jobID uint64, workerName string) (*Job, Window, error) {
	var j Job
	err := s.DB.WithContext(ctx).Preload("Shift").Where("id = ?", jobID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Window{}, ErrNotFound
	}
	if err != nil {
		return nil, Window{}, err
	}
	if j.Status == StatusRemoved {
		return nil, Window{}, ErrRemoved
	}
	if j.ClaimedBy != nil || j.Status == StatusClaimed {
		return nil, Window{}, ErrAlreadyClaimed
	}

	// Validate shift times before mutating anything.
	w, err := ResolveWindow(j.Shift)
	if err != nil {
		return nil, Window{}, err
	}

	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND claimed_by IS NULL AND status NOT IN ?", jobID, []string{StatusClaimed, StatusRemoved}).
		Updates(map[string]any{
			"status":     StatusClaimed,
			"claimed_by": workerName,
			"claimed_at": now,
		})
	if res.Error != nil {
		return nil, Window{}, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, Window{}, ErrAlreadyClaimed
	}

	j.Status = StatusClaimed
	j.ClaimedBy = &workerName
	j.ClaimedAt = &now
	return &j, w, nil
}

// Unclaim clears the claimant and sets UNCLAIMED regardless of prior
// status, so it doubles as an idempotent reset. REMOVED stays terminal.
func (s *Service) Unclaim(ctx context.Context, jobID uint64) (*Job, error) {
	var j Job
	err := s.DB.WithContext(ctx).Preload("Shift").Where("id = ?", jobID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if j.Shift == nil {
		return nil, ErrNotFound
	}
	if j.Status == StatusRemoved {
		return nil, ErrRemoved
	}

	res := s.DB.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status <> ?", jobID, StatusRemoved).
		Updates(map[string]any{
			"status":     StatusUnclaimed,
			"claimed_by": nil,
			"claimed_at": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRemoved
	}

	j.Status = StatusUnclaimed
	j.ClaimedBy = nil
	j.ClaimedAt = nil
	return &j, nil
}

// MarkRemoved sets the terminal REMOVED status.
func (s *Service) MarkRemoved(ctx context.Context, jobID uint64) error {
	return s.DB.WithContext(ctx).Model(&Job{}).
		Where("id = ?", jobID).
		Update("status", StatusRemoved).Error
}

// SweepStale rewrites the caller's PENDING jobs older than the
// staleness window to UNCLAIMED. Runs before every job-list read.
func (s *Service) SweepStale(ctx context.Context, userID uint64) (int64, error) {
	cutoff := time.Now().Add(-StalePendingAfter)
	res := s.DB.WithContext(ctx).Model(&Job{}).
		Where("user_id = ? AND status = ? AND created_at < ?", userID, StatusPending, cutoff).
		Update("status", StatusUnclaimed)
	return res.RowsAffected, res.Error
}

// ListJobs returns the caller's jobs newest-first, shifts included.
func (s *Service) ListJobs(ctx context.Context, userID uint64) ([]Job, error) {
	var jobs []Job
	err := s.DB.WithContext(ctx).Preload("Shift").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&jobs).Error
	return jobs, err
}

// CategoryNumbers returns every non-opted-out phone number carrying the
// category label, across all users. Used for claim/unclaim fan-out.
func (s *Service) CategoryNumbers(ctx context.Context, category string) ([]PhoneNumber, error) {
	var phones []PhoneNumber
	err := s.DB.WithContext(ctx).
		Where("? = any(categories) AND opted_out = false", category).
		Find(&phones).Error
	return phones, err
}

// OwnerCategoryNumbers restricts the audience to one user's numbers.
// Used for job-creation broadcasts and removal notices.
func (s *Service) OwnerCategoryNumbers(ctx context.Context, userID uint64, category string) ([]PhoneNumber, error) {
	var phones []PhoneNumber
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND ? = any(categories) AND opted_out = false", userID, category).
		Find(&phones).Error
	return phones, err
}

// ScheduleReminder persists a one-hour-before reminder for the claimant
// if a phone number is registered under their display name. A missing
// number is logged and skipped; the claim has already succeeded.
func (s *Service) ScheduleReminder(ctx context.Context, j *Job, w Window, workerName string) error {
	var phone PhoneNumber
	err := s.DB.WithContext(ctx).Where("name = ?", workerName).First(&phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("no phone number registered for %q, skipping reminder\n", workerName)
		return nil
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("ShiftGrab Reminder: You have a shift at %s on %s from %s - %s.",
		j.BusinessName, j.Shift.Date, j.Shift.StartTime, j.Shift.EndTime)

	rem := Reminder{
		JobID:       j.ID,
		PhoneNumber: phone.Number,
		Message:     msg,
		SendAt:      w.RemindAt,
		Sent:        false,
	}
	if err := s.DB.WithContext(ctx).Create(&rem).Error; err != nil {
		return err
	}
	log.Printf("reminder scheduled for %s at %s\n", phone.Number, w.RemindAt)
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
