package service

import (
	"driveline/internal/repository"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// JobService runs the scheduled housekeeping: a daily digest listing
// reservations past their end date that staff have not completed yet.
type JobService struct {
	repo   *repository.JobRepository
	sender *SenderService
	logger *zap.Logger
}

func NewJobService(repo *repository.JobRepository, sender *SenderService, logger *zap.Logger) *JobService {
	return &JobService{repo: repo, sender: sender, logger: logger}
}

func (s *JobService) SendOverdueDigest() error {
	overdue, err := s.repo.ListOverdue()
	if err != nil {
		return fmt.Errorf("cron job: failed to list overdue reservations: %w", err)
	}
	if len(overdue) == 0 {
		s.logger.Info("cron job: no overdue reservations")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d reservation(s) are past their end date:\n\n", len(overdue))
	for _, res := range overdue {
		fmt.Fprintf(&b, "- %s  %s  due %s  status %s\n",
			res.Code, res.CustomerName, res.EndDate.Format(dateLayout), res.Status)
	}

	subject := fmt.Sprintf("DriveLine: %d overdue reservation(s)", len(overdue))
	if err := s.sender.SendStaffDigest(subject, b.String()); err != nil {
		return fmt.Errorf("cron job: failed to send overdue digest: %w", err)
	}
	s.logger.Info("cron job: overdue digest sent", zap.Int("count", len(overdue)))
	return nil
}
