package repository

import (
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

// CategoryRepository 카테고리 데이터 접근 인터페이스
type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindByName(name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository CategoryRepository 생성자
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("id").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find category by name", err, map[string]interface{}{
				"name": name,
			})
		}
		return nil, err
	}
	return &category, nil
}
