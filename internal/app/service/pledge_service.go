package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/websocket"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrFundingOptionNotFound = errors.New("funding option not found")
	ErrNoStock               = errors.New("funding option out of stock")
)

// PledgeService 후원 처리 서비스 인터페이스
type PledgeService interface {
	Pledge(userID, optionID uint) (*model.Donation, error)
	ExportDonations(userID, projectID uint) (*excelize.File, error)
}

type pledgeService struct {
	donationRepo repository.DonationRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	hub          *websocket.Hub
	db           *gorm.DB
}

// NewPledgeService PledgeService 생성자. hub는 nil이면 실시간 피드를 끈다.
func NewPledgeService(
	donationRepo repository.DonationRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	hub *websocket.Hub,
	db *gorm.DB,
) PledgeService {
	return &pledgeService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		hub:          hub,
		db:           db,
	}
}

// Pledge 옵션 행을 잠근 채로 재고 확인, 후원 기록, 재고 차감을 한 트랜잭션으로 처리한다.
// remains가 nil인 옵션은 무제한이라 차감하지 않는다.
func (s *pledgeService) Pledge(userID, optionID uint) (*model.Donation, error) {
	logger.Info("Processing pledge", map[string]interface{}{
		"user_id":   userID,
		"option_id": optionID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during pledge, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id":   userID,
				"option_id": optionID,
			})
		}
	}()

	var option model.FundingOption
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&option, optionID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Pledge failed: funding option not found", map[string]interface{}{
				"user_id":   userID,
				"option_id": optionID,
			})
			return nil, ErrFundingOptionNotFound
		}
		logger.Error("Failed to fetch funding option during pledge", err, map[string]interface{}{
			"user_id":   userID,
			"option_id": optionID,
		})
		return nil, err
	}

	if option.Remains != nil && *option.Remains <= 0 {
		tx.Rollback()
		logger.Warn("Pledge failed: no stock", map[string]interface{}{
			"user_id":   userID,
			"option_id": optionID,
		})
		return nil, ErrNoStock
	}

	// 프로젝트 소속은 호출자가 보낸 값이 아니라 잠긴 옵션 행에서 가져온다
	donation := &model.Donation{
		UserID:          userID,
		ProjectID:       option.ProjectID,
		FundingOptionID: option.ID,
	}
	if err := s.donationRepo.Create(tx, donation); err != nil {
		tx.Rollback()
		return nil, err
	}

	if option.Remains != nil {
		result := tx.Model(&model.FundingOption{}).
			Where("id = ? AND remains > 0", option.ID).
			Update("remains", gorm.Expr("remains - ?", 1))
		if result.Error != nil {
			tx.Rollback()
			logger.Error("Failed to decrement option remains", result.Error, map[string]interface{}{
				"option_id": option.ID,
			})
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			logger.Warn("Pledge failed: stock exhausted during decrement", map[string]interface{}{
				"option_id": option.ID,
			})
			return nil, ErrNoStock
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit pledge", err, map[string]interface{}{
			"user_id":   userID,
			"option_id": optionID,
		})
		return nil, err
	}

	logger.Info("Pledge completed", map[string]interface{}{
		"donation_id": donation.ID,
		"project_id":  donation.ProjectID,
		"user_id":     userID,
	})

	// 커밋 이후에만 피드로 내보낸다. 피드 실패는 후원 결과에 영향을 주지 않는다.
	if s.hub != nil {
		username := ""
		if user, err := s.userRepo.FindByID(userID); err == nil {
			username = user.Username
		}
		s.hub.PublishPledge(websocket.PledgeEvent{
			ProjectID:       donation.ProjectID,
			FundingOptionID: donation.FundingOptionID,
			Amount:          option.Amount,
			Username:        username,
		})
	}

	return donation, nil
}

// ExportDonations 창작자 본인만 프로젝트 후원 내역을 엑셀로 내려받을 수 있다.
func (s *pledgeService) ExportDonations(userID, projectID uint) (*excelize.File, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.CreaterID != userID {
		logger.Warn("Donation export rejected: not the owner", map[string]interface{}{
			"project_id": projectID,
			"user_id":    userID,
		})
		return nil, ErrNotProjectOwner
	}

	donations, err := s.donationRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"후원자", "이메일", "선물", "금액", "후원일시"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, donation := range donations {
		row := i + 2
		values := []interface{}{
			donation.User.Username,
			donation.User.Email,
			donation.FundingOption.Title,
			donation.FundingOption.Amount,
			donation.CreatedAt.Format(time.RFC3339),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	logger.Info("Donation export generated", map[string]interface{}{
		"project_id": projectID,
		"rows":       len(donations),
	})

	return f, nil
}
