package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrNotProjectOwner  = errors.New("not the project owner")
)

// RewardInput 창작자가 정의한 선물 옵션 입력
type RewardInput struct {
	Amount      int64
	Title       string
	Description string
	Remains     *int64 // nil이면 무제한
}

// CreateProjectInput 프로젝트 등록 입력
type CreateProjectInput struct {
	Title         string
	Summary       string
	Category      string
	TargetFund    int64
	LaunchDate    time.Time
	EndDate       time.Time
	Tags          []string
	Rewards       []RewardInput
	TitleImageURL string

	// 창작자 소개는 프로젝트 등록 시 함께 갱신된다
	CreatorIntroduction    string
	CreatorProfileImageURL string
}

// ProjectService 프로젝트 조회/등록/삭제 서비스 인터페이스
type ProjectService interface {
	ListProjects(filter repository.ProjectFilter) ([]model.ProjectStats, error)
	GetProjectDetail(id uint, viewerID *uint) (*repository.ProjectDetail, error)
	CreateProject(userID uint, input CreateProjectInput) (*model.Project, error)
	DeleteProject(userID, projectID uint) error
	GetCategories() ([]model.Category, error)
}

type projectService struct {
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	db           *gorm.DB
}

// NewProjectService ProjectService 생성자
func NewProjectService(
	projectRepo repository.ProjectRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		db:           db,
	}
}

func (s *projectService) ListProjects(filter repository.ProjectFilter) ([]model.ProjectStats, error) {
	switch filter.SortBy {
	case repository.ProjectSortDefault, repository.ProjectSortLatest,
		repository.ProjectSortPeople, repository.ProjectSortAmount,
		repository.ProjectSortOld, "":
	default:
		logger.Warn("Project list rejected: unknown sort key", map[string]interface{}{
			"sort_by": filter.SortBy,
		})
		return nil, ErrInvalidSortKey
	}

	if filter.Now.IsZero() {
		filter.Now = time.Now()
	}

	return s.projectRepo.FindWithFilter(filter)
}

func (s *projectService) GetProjectDetail(id uint, viewerID *uint) (*repository.ProjectDetail, error) {
	detail, err := s.projectRepo.FindDetailByID(id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return detail, nil
}

// CreateProject 프로젝트와 선물 옵션, 태그를 한 트랜잭션으로 등록한다.
// 금액 없이 밀어주는 기본 옵션은 항상 함께 만들어진다.
func (s *projectService) CreateProject(userID uint, input CreateProjectInput) (*model.Project, error) {
	logger.Info("Creating project", map[string]interface{}{
		"user_id":  userID,
		"title":    input.Title,
		"category": input.Category,
	})

	if input.TargetFund <= 0 {
		return nil, &ValidationError{Reason: "target fund must be greater than zero"}
	}
	if !input.EndDate.After(input.LaunchDate) {
		return nil, &ValidationError{Reason: "end date must be after launch date"}
	}
	for _, reward := range input.Rewards {
		if reward.Amount <= 0 {
			return nil, &ValidationError{Reason: "reward amount must be greater than zero"}
		}
		if reward.Remains != nil && *reward.Remains < 0 {
			return nil, &ValidationError{Reason: "reward remains must not be negative"}
		}
	}

	category, err := s.categoryRepo.FindByName(input.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Project creation failed: unknown category", map[string]interface{}{
				"category": input.Category,
			})
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during project creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	project := &model.Project{
		Title:         input.Title,
		CreaterID:     userID,
		Summary:       input.Summary,
		CategoryID:    category.ID,
		TitleImageURL: input.TitleImageURL,
		TargetFund:    input.TargetFund,
		LaunchDate:    input.LaunchDate,
		EndDate:       input.EndDate,
	}
	if err := tx.Create(project).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create project", err, map[string]interface{}{
			"user_id": userID,
			"title":   input.Title,
		})
		return nil, err
	}

	options := []model.FundingOption{
		{
			ProjectID:   project.ID,
			Amount:      model.DefaultOptionAmount,
			Title:       model.DefaultOptionTitle,
			Description: model.DefaultOptionDescription,
			Remains:     nil,
		},
	}
	for _, reward := range input.Rewards {
		options = append(options, model.FundingOption{
			ProjectID:   project.ID,
			Amount:      reward.Amount,
			Title:       reward.Title,
			Description: reward.Description,
			Remains:     reward.Remains,
		})
	}
	if err := tx.Create(&options).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create funding options", err, map[string]interface{}{
			"project_id": project.ID,
		})
		return nil, err
	}

	for _, name := range input.Tags {
		if name == "" {
			continue
		}
		tag, err := s.tagRepo.FindOrCreateByName(tx, name)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		projectTag := model.ProjectTag{ProjectID: project.ID, TagID: tag.ID}
		if err := tx.Create(&projectTag).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to attach tag to project", err, map[string]interface{}{
				"project_id": project.ID,
				"tag_id":     tag.ID,
			})
			return nil, err
		}
	}

	// 창작자 소개와 프로필 이미지는 프로젝트 등록 폼에서 함께 들어온다
	if input.CreatorIntroduction != "" || input.CreatorProfileImageURL != "" {
		updates := map[string]interface{}{}
		if input.CreatorIntroduction != "" {
			updates["introduction"] = input.CreatorIntroduction
		}
		if input.CreatorProfileImageURL != "" {
			updates["profile_image_url"] = input.CreatorProfileImageURL
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to update creator profile", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit project creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Project created successfully", map[string]interface{}{
		"project_id": project.ID,
		"user_id":    userID,
	})

	return s.projectRepo.FindByID(project.ID)
}

// DeleteProject 창작자 본인만 삭제할 수 있고 후원/좋아요/옵션이 함께 지워진다.
func (s *projectService) DeleteProject(userID, projectID uint) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if project.CreaterID != userID {
		logger.Warn("Project deletion rejected: not the owner", map[string]interface{}{
			"project_id": projectID,
			"user_id":    userID,
			"creater_id": project.CreaterID,
		})
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.DeleteCascade(projectID); err != nil {
		return err
	}

	logger.Info("Project deleted", map[string]interface{}{
		"project_id": projectID,
		"user_id":    userID,
	})
	return nil
}

func (s *projectService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}
