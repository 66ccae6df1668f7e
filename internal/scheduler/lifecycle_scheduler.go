package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
)

// LifecycleScheduler 프로젝트 상태 전환 집계 스케줄러
// 상태 자체는 조회 시점에 계산되므로 여기서는 하루 한 번 전환 현황만 기록한다.
type LifecycleScheduler struct {
	cron        *cron.Cron
	projectRepo repository.ProjectRepository
}

// NewLifecycleScheduler 스케줄러 생성
func NewLifecycleScheduler(projectRepo repository.ProjectRepository) *LifecycleScheduler {
	return &LifecycleScheduler{
		cron:        cron.New(),
		projectRepo: projectRepo,
	}
}

// Start 스케줄러 시작
func (s *LifecycleScheduler) Start() error {
	// 매일 자정에 전날 마감/오픈된 프로젝트 수를 집계한다
	_, err := s.cron.AddFunc("0 0 * * *", s.logDailyTransitions)
	if err != nil {
		logger.Error("Failed to add cron job for project lifecycle digest", err)
		return err
	}

	s.cron.Start()
	logger.Info("Project lifecycle scheduler started (daily at midnight)", nil)
	return nil
}

// Stop 스케줄러 중지
func (s *LifecycleScheduler) Stop() {
	logger.Info("Stopping project lifecycle scheduler...", nil)
	s.cron.Stop()
	logger.Info("Project lifecycle scheduler stopped", nil)
}

func (s *LifecycleScheduler) logDailyTransitions() {
	now := time.Now()
	dayAgo := now.Add(-24 * time.Hour)

	ended, err := s.projectRepo.CountEndingBetween(dayAgo, now)
	if err != nil {
		logger.Error("Failed to count ended projects", err)
		return
	}

	launched, err := s.projectRepo.CountLaunchingBetween(dayAgo, now)
	if err != nil {
		logger.Error("Failed to count launched projects", err)
		return
	}

	logger.Info("Daily project lifecycle digest", map[string]interface{}{
		"ended_last_24h":    ended,
		"launched_last_24h": launched,
	})
}
