package repository

import (
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

// DonationRepository 후원 데이터 접근 인터페이스
type DonationRepository interface {
	Create(tx *gorm.DB, donation *model.Donation) error
	FindByProjectID(projectID uint) ([]model.Donation, error)
	FindByUserID(userID uint) ([]model.Donation, error)
}

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository DonationRepository 생성자
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

// Create 후원 레코드를 삽입한다. 재고 차감과 같은 트랜잭션에서 실행돼야 한다.
func (r *donationRepository) Create(tx *gorm.DB, donation *model.Donation) error {
	if tx == nil {
		tx = r.db
	}

	if err := tx.Create(donation).Error; err != nil {
		logger.Error("Failed to create donation", err, map[string]interface{}{
			"user_id":           donation.UserID,
			"project_id":        donation.ProjectID,
			"funding_option_id": donation.FundingOptionID,
		})
		return err
	}

	logger.Debug("Donation created", map[string]interface{}{
		"donation_id": donation.ID,
		"project_id":  donation.ProjectID,
	})
	return nil
}

func (r *donationRepository) FindByProjectID(projectID uint) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.
		Preload("User").
		Preload("FundingOption").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&donations).Error
	if err != nil {
		logger.Error("Failed to find donations by project", err, map[string]interface{}{
			"project_id": projectID,
		})
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) FindByUserID(userID uint) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.
		Preload("Project").
		Preload("FundingOption").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		logger.Error("Failed to find donations by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return donations, nil
}
