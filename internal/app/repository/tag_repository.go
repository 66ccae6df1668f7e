package repository

import (
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

// TagRepository 태그 데이터 접근 인터페이스
type TagRepository interface {
	FindOrCreateByName(tx *gorm.DB, name string) (*model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository TagRepository 생성자
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// FindOrCreateByName 같은 이름의 태그가 있으면 재사용하고 없으면 생성한다.
// 프로젝트 생성 트랜잭션 안에서 호출되므로 tx를 받는다.
func (r *tagRepository) FindOrCreateByName(tx *gorm.DB, name string) (*model.Tag, error) {
	if tx == nil {
		tx = r.db
	}

	var tag model.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to find tag by name", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	tag = model.Tag{Name: name}
	if err := tx.Create(&tag).Error; err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Debug("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   name,
	})
	return &tag, nil
}
