package repository

import (
	"fmt"
	"time"

	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProjectSort string

const (
	ProjectSortDefault ProjectSort = "default"
	ProjectSortLatest  ProjectSort = "latest"
	ProjectSortPeople  ProjectSort = "people"
	ProjectSortAmount  ProjectSort = "amount"
	ProjectSortOld     ProjectSort = "old"
)

// ProjectFilter 목록 조회 조건. 모든 필터는 AND로 결합된다
type ProjectFilter struct {
	ProgressMin *float64
	ProgressMax *float64
	AmountMin   *int64
	AmountMax   *int64
	Category    string
	Status      model.ProjectStatus
	ViewerID    *uint // 좋아요/후원 여부 판정 기준 사용자 (nil = 비로그인)
	LikedOnly   bool
	DonatedOnly bool
	Search      string
	SortBy      ProjectSort
	Now         time.Time // 상태 계산용 단일 스냅샷
}

// ProjectDetail 단일 프로젝트 집계 결과
type ProjectDetail struct {
	Project       model.Project
	FundingAmount int64
	TotalSponsor  int64
	Liked         bool
	OptionCounts  map[uint]int64 // funding_option_id -> selected_funding
}

type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(id uint) (*model.Project, error)
	FindWithFilter(filter ProjectFilter) ([]model.ProjectStats, error)
	FindDetailByID(id uint, viewerID *uint) (*ProjectDetail, error)
	DeleteCascade(id uint) error
	CountEndingBetween(from, to time.Time) (int64, error)
	CountLaunchingBetween(from, to time.Time) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	logger.Debug("Creating project in database", map[string]interface{}{
		"title":      project.Title,
		"creater_id": project.CreaterID,
	})

	if err := r.db.Create(project).Error; err != nil {
		logger.Error("Failed to create project in database", err, map[string]interface{}{
			"title":      project.Title,
			"creater_id": project.CreaterID,
		})
		return err
	}

	logger.Debug("Project created in database", map[string]interface{}{
		"project_id": project.ID,
		"title":      project.Title,
	})
	return nil
}

func (r *projectRepository) FindByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.
		Preload("Creater").
		Preload("Category").
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// 파생 지표에 쓰이는 SQL 조각. WHERE 절은 별칭을 못 쓰므로 식 전체를 반복한다
const (
	fundingAmountExpr = "COALESCE(donation_stats.amount, 0)"
	fundingCountExpr  = "COALESCE(donation_stats.count, 0)"
	progressExpr      = "100.0 * COALESCE(donation_stats.amount, 0) / projects.target_fund"
)

// FindWithFilter 파생 지표를 단일 질의로 집계해 프로젝트 목록을 반환한다
// 지표는 매 호출마다 새로 계산된다 (캐시 없음)
func (r *projectRepository) FindWithFilter(filter ProjectFilter) ([]model.ProjectStats, error) {
	logger.Debug("Finding projects with filter", map[string]interface{}{
		"category":     filter.Category,
		"status":       filter.Status,
		"search":       filter.Search,
		"sort_by":      filter.SortBy,
		"liked_only":   filter.LikedOnly,
		"donated_only": filter.DonatedOnly,
	})

	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	donationStats := r.db.Table("donations").
		Select("donations.project_id, SUM(funding_options.amount) AS amount, COUNT(*) AS count").
		Joins("JOIN funding_options ON funding_options.id = donations.funding_option_id").
		Group("donations.project_id")

	statusExpr := "CASE WHEN projects.end_date < ? THEN 'done' WHEN projects.launch_date > ? THEN 'scheduled' ELSE 'ing' END"

	query := r.db.Table("projects").
		Joins("LEFT JOIN (?) AS donation_stats ON donation_stats.project_id = projects.id", donationStats).
		Joins("JOIN categories ON categories.id = projects.category_id").
		Joins("JOIN users ON users.id = projects.creater_id")

	selectSQL := "projects.*, " +
		fundingAmountExpr + " AS funding_amount, " +
		fundingCountExpr + " AS funding_count, " +
		progressExpr + " AS progress, " +
		statusExpr + " AS status"
	selectVars := []interface{}{now, now}

	if filter.ViewerID != nil {
		selectSQL += ", EXISTS(SELECT 1 FROM likes WHERE likes.project_id = projects.id AND likes.user_id = ?) AS liked" +
			", EXISTS(SELECT 1 FROM donations AS viewer_donations WHERE viewer_donations.project_id = projects.id AND viewer_donations.user_id = ?) AS donated"
		selectVars = append(selectVars, *filter.ViewerID, *filter.ViewerID)
	}

	query = query.Select(selectSQL, selectVars...)

	if filter.ProgressMin != nil {
		query = query.Where(progressExpr+" >= ?", *filter.ProgressMin)
	}
	if filter.ProgressMax != nil {
		query = query.Where(progressExpr+" <= ?", *filter.ProgressMax)
	}
	if filter.AmountMin != nil {
		query = query.Where(fundingAmountExpr+" >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		query = query.Where(fundingAmountExpr+" <= ?", *filter.AmountMax)
	}
	if filter.Category != "" {
		query = query.Where("categories.name = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where(statusExpr+" = ?", now, now, string(filter.Status))
	}
	if filter.ViewerID != nil && filter.LikedOnly {
		query = query.Where("EXISTS(SELECT 1 FROM likes WHERE likes.project_id = projects.id AND likes.user_id = ?)", *filter.ViewerID)
	}
	if filter.ViewerID != nil && filter.DonatedOnly {
		query = query.Where("EXISTS(SELECT 1 FROM donations AS viewer_donations WHERE viewer_donations.project_id = projects.id AND viewer_donations.user_id = ?)", *filter.ViewerID)
	}

	// 검색은 다른 필터가 좁힌 집합 안에서 제목 또는 소개글에 대해 적용된다
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("projects.title LIKE ? OR projects.summary LIKE ?", like, like)
	}

	// 좋아요한 프로젝트를 앞 구획으로, 각 구획 내부는 선택한 정렬 키 순서 유지
	if filter.ViewerID != nil && !filter.LikedOnly {
		query = query.Order("liked DESC")
	}

	switch filter.SortBy {
	case ProjectSortPeople:
		query = query.Order(fundingCountExpr + " DESC")
	case ProjectSortAmount:
		query = query.Order(fundingAmountExpr + " DESC")
	case ProjectSortOld:
		query = query.Order("projects.end_date ASC")
	case ProjectSortDefault, ProjectSortLatest, "":
		query = query.Order("projects.created_at DESC")
	default:
		query = query.Order("projects.created_at DESC")
	}

	var rows []projectStatsRow
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to find projects with filter", err, map[string]interface{}{
			"category": filter.Category,
			"status":   filter.Status,
		})
		return nil, err
	}

	projects := make([]model.ProjectStats, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toStats())
	}

	// Scan은 Preload를 지원하지 않으므로 창작자/카테고리는 별도로 채운다
	if err := r.attachRelations(projects); err != nil {
		return nil, err
	}

	logger.Debug("Projects found with filter", map[string]interface{}{
		"count": len(projects),
	})
	return projects, nil
}

// projectStatsRow Scan 전용 평탄화 구조체
// 관계 필드를 가진 모델을 직접 Scan 대상으로 쓰지 않기 위한 중간 형태
type projectStatsRow struct {
	ID            uint
	Title         string
	CreaterID     uint
	Summary       string
	CategoryID    uint
	TitleImageURL string
	TargetFund    int64
	LaunchDate    time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	FundingAmount int64
	FundingCount  int64
	Progress      float64
	Status        string
	Liked         bool
	Donated       bool
}

func (row projectStatsRow) toStats() model.ProjectStats {
	return model.ProjectStats{
		Project: model.Project{
			ID:            row.ID,
			Title:         row.Title,
			CreaterID:     row.CreaterID,
			Summary:       row.Summary,
			CategoryID:    row.CategoryID,
			TitleImageURL: row.TitleImageURL,
			TargetFund:    row.TargetFund,
			LaunchDate:    row.LaunchDate,
			EndDate:       row.EndDate,
			CreatedAt:     row.CreatedAt,
		},
		FundingAmount: row.FundingAmount,
		FundingCount:  row.FundingCount,
		Progress:      row.Progress,
		Status:        model.ProjectStatus(row.Status),
		Liked:         row.Liked,
		Donated:       row.Donated,
	}
}

func (r *projectRepository) attachRelations(projects []model.ProjectStats) error {
	if len(projects) == 0 {
		return nil
	}

	userIDs := make([]uint, 0, len(projects))
	categoryIDs := make([]uint, 0, len(projects))
	for _, p := range projects {
		userIDs = append(userIDs, p.CreaterID)
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	var users []model.User
	if err := r.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return err
	}
	var categories []model.Category
	if err := r.db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return err
	}

	usersByID := make(map[uint]model.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	categoriesByID := make(map[uint]model.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}

	for i := range projects {
		projects[i].Creater = usersByID[projects[i].CreaterID]
		projects[i].Category = categoriesByID[projects[i].CategoryID]
	}
	return nil
}

// FindDetailByID 단일 프로젝트의 후원 요약과 옵션별 선택 수를 집계한다
func (r *projectRepository) FindDetailByID(id uint, viewerID *uint) (*ProjectDetail, error) {
	logger.Debug("Finding project detail in database", map[string]interface{}{
		"project_id": id,
	})

	var project model.Project
	if err := r.db.
		Preload("Creater").
		Preload("Category").
		Preload("FundingOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("funding_options.id ASC")
		}).
		First(&project, id).Error; err != nil {
		return nil, err
	}

	// 후원이 전혀 없는 프로젝트도 0으로 집계되어야 한다
	var totals struct {
		Amount int64
		Count  int64
	}
	if err := r.db.Table("donations").
		Select("COALESCE(SUM(funding_options.amount), 0) AS amount, COUNT(donations.id) AS count").
		Joins("JOIN funding_options ON funding_options.id = donations.funding_option_id").
		Where("donations.project_id = ?", id).
		Scan(&totals).Error; err != nil {
		logger.Error("Failed to aggregate project donations", err, map[string]interface{}{
			"project_id": id,
		})
		return nil, err
	}

	var optionRows []struct {
		FundingOptionID uint
		Count           int64
	}
	if err := r.db.Table("donations").
		Select("donations.funding_option_id, COUNT(*) AS count").
		Where("donations.project_id = ?", id).
		Group("donations.funding_option_id").
		Scan(&optionRows).Error; err != nil {
		logger.Error("Failed to count donations per funding option", err, map[string]interface{}{
			"project_id": id,
		})
		return nil, err
	}

	optionCounts := make(map[uint]int64, len(optionRows))
	for _, row := range optionRows {
		optionCounts[row.FundingOptionID] = row.Count
	}

	liked := false
	if viewerID != nil {
		var likeCount int64
		if err := r.db.Model(&model.Like{}).
			Where("user_id = ? AND project_id = ?", *viewerID, id).
			Count(&likeCount).Error; err != nil {
			return nil, err
		}
		liked = likeCount > 0
	}

	return &ProjectDetail{
		Project:       project,
		FundingAmount: totals.Amount,
		TotalSponsor:  totals.Count,
		Liked:         liked,
		OptionCounts:  optionCounts,
	}, nil
}

// DeleteCascade 프로젝트와 소유 관계의 모든 행을 한 트랜잭션에서 삭제한다
// 스토리지 엔진의 FK cascade에 의존하지 않고 명시적으로 지운다
func (r *projectRepository) DeleteCascade(id uint) error {
	logger.Debug("Deleting project with owned rows", map[string]interface{}{
		"project_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Donation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.FundingOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete project", err, map[string]interface{}{
			"project_id": id,
		})
		return err
	}

	logger.Debug("Project deleted from database", map[string]interface{}{
		"project_id": id,
	})
	return nil
}

func (r *projectRepository) CountEndingBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Project{}).
		Where("end_date >= ? AND end_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *projectRepository) CountLaunchingBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Project{}).
		Where("launch_date >= ? AND launch_date < ?", from, to).
		Count(&count).Error
	return count, err
}
