package repository

import (
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

// LikeRepository 좋아요 데이터 접근 인터페이스
type LikeRepository interface {
	FindByUserAndProject(tx *gorm.DB, userID, projectID uint) (*model.Like, error)
	Create(tx *gorm.DB, like *model.Like) error
	Delete(tx *gorm.DB, like *model.Like) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository LikeRepository 생성자
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) FindByUserAndProject(tx *gorm.DB, userID, projectID uint) (*model.Like, error) {
	if tx == nil {
		tx = r.db
	}

	var like model.Like
	err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).First(&like).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find like", err, map[string]interface{}{
				"user_id":    userID,
				"project_id": projectID,
			})
		}
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(tx *gorm.DB, like *model.Like) error {
	if tx == nil {
		tx = r.db
	}

	if err := tx.Create(like).Error; err != nil {
		logger.Error("Failed to create like", err, map[string]interface{}{
			"user_id":    like.UserID,
			"project_id": like.ProjectID,
		})
		return err
	}
	return nil
}

func (r *likeRepository) Delete(tx *gorm.DB, like *model.Like) error {
	if tx == nil {
		tx = r.db
	}

	if err := tx.Delete(like).Error; err != nil {
		logger.Error("Failed to delete like", err, map[string]interface{}{
			"like_id": like.ID,
		})
		return err
	}
	return nil
}
