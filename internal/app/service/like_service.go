package service

import (
	"errors"
	"fmt"

	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeService 좋아요 토글 서비스 인터페이스
type LikeService interface {
	Toggle(userID, projectID uint) (bool, error)
}

type likeService struct {
	likeRepo repository.LikeRepository
	db       *gorm.DB
}

// NewLikeService LikeService 생성자
func NewLikeService(likeRepo repository.LikeRepository, db *gorm.DB) LikeService {
	return &likeService{
		likeRepo: likeRepo,
		db:       db,
	}
}

// Toggle 좋아요가 있으면 지우고 없으면 만든다. 반환값은 토글 후의 상태.
// 같은 사용자의 동시 토글이 이중 삽입되지 않도록 프로젝트 행을 잠근다.
func (s *likeService) Toggle(userID, projectID uint) (bool, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during like toggle, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id":    userID,
				"project_id": projectID,
			})
		}
	}()

	var project model.Project
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, projectID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProjectNotFound
		}
		logger.Error("Failed to fetch project during like toggle", err, map[string]interface{}{
			"project_id": projectID,
		})
		return false, err
	}

	existing, err := s.likeRepo.FindByUserAndProject(tx, userID, projectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return false, err
	}

	var liked bool
	if existing != nil {
		if err := s.likeRepo.Delete(tx, existing); err != nil {
			tx.Rollback()
			return false, err
		}
		liked = false
	} else {
		like := &model.Like{UserID: userID, ProjectID: projectID}
		if err := s.likeRepo.Create(tx, like); err != nil {
			tx.Rollback()
			return false, err
		}
		liked = true
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit like toggle", err, map[string]interface{}{
			"user_id":    userID,
			"project_id": projectID,
		})
		return false, err
	}

	logger.Debug("Like toggled", map[string]interface{}{
		"user_id":    userID,
		"project_id": projectID,
		"liked":      liked,
	})
	return liked, nil
}
