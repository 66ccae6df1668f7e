package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	apperrors "github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
	"github.com/tteokbok/tteokbok-backend/internal/storage"
)

type ProjectController struct {
	projectService service.ProjectService
	pledgeService  service.PledgeService
	uploader       storage.Uploader
}

// NewProjectController ProjectController 생성자. uploader는 nil이면 이미지 업로드를 건너뛴다.
func NewProjectController(
	projectService service.ProjectService,
	pledgeService service.PledgeService,
	uploader storage.Uploader,
) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		pledgeService:  pledgeService,
		uploader:       uploader,
	}
}

type CreateRewardRequest struct {
	Amount      int64  `json:"amount"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Remains     *int64 `json:"remains"`
}

type CreateProjectRequest struct {
	Title        string                `json:"title"`
	Summary      string                `json:"summary"`
	Category     string                `json:"category"`
	TargetFund   int64                 `json:"target_fund"`
	LaunchDate   string                `json:"launch_date"`
	EndDate      string                `json:"end_date"`
	Tags         []string              `json:"tags"`
	Introduction string                `json:"introduction"`
	Rewards      []CreateRewardRequest `json:"rewards"`
}

// List handles project browsing with filters and sorting
// GET /projects
func (ctrl *ProjectController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProjectFilter{
		Category: c.Query("category"),
		Status:   model.ProjectStatus(c.Query("status")),
		Search:   c.Query("search"),
		SortBy:   repository.ProjectSort(c.DefaultQuery("sorted", "default")),
		Now:      time.Now(),
	}

	var parseErr error
	filter.ProgressMin, parseErr = queryFloat(c, "progressMin", parseErr)
	filter.ProgressMax, parseErr = queryFloat(c, "progressMax", parseErr)
	filter.AmountMin, parseErr = queryInt64(c, "amountMin", parseErr)
	filter.AmountMax, parseErr = queryInt64(c, "amountMax", parseErr)
	if parseErr != nil {
		apperrors.BadRequest(c, apperrors.ValidationError, parseErr.Error())
		return
	}

	if userID, ok := middleware.GetUserID(c); ok {
		filter.ViewerID = &userID
		filter.LikedOnly = c.Query("liked") == "true"
		filter.DonatedOnly = c.Query("donated") == "true"
	}

	projects, err := ctrl.projectService.ListProjects(filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortKey) {
			apperrors.BadRequest(c, apperrors.InvalidSortKey, fmt.Sprintf("unsupported sort key: %s", filter.SortBy))
			return
		}
		log.Error("Failed to list projects", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	items := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		item := gin.H{
			"id":              p.ID,
			"title_image_url": p.TitleImageURL,
			"title":           p.Title,
			"category":        p.Category.Name,
			"creater":         p.Creater.Username,
			"summary":         p.Summary,
			"funding_amount":  p.FundingAmount,
			"funding_count":   p.FundingCount,
			"target_amount":   p.TargetFund,
			"launch_date":     p.LaunchDate,
			"end_date":        p.EndDate,
			"status":          p.Status,
			"progress":        p.Progress,
		}
		if filter.ViewerID != nil {
			item["is_liked"] = p.Liked
			item["is_donated"] = p.Donated
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"num_projects": len(items),
			"projects":     items,
		},
	})
}

// Detail handles a single project page
// GET /projects/:id
func (ctrl *ProjectController) Detail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	projectID, ok := paramID(c)
	if !ok {
		apperrors.NotFound(c, "Project does not exist.")
		return
	}

	var viewerID *uint
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	detail, err := ctrl.projectService.GetProjectDetail(projectID, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			apperrors.NotFound(c, "Project does not exist.")
			return
		}
		log.Error("Failed to load project detail", err, map[string]interface{}{
			"project_id": projectID,
		})
		apperrors.InternalError(c, "")
		return
	}

	project := detail.Project
	options := make([]gin.H, 0, len(project.FundingOptions))
	for _, option := range project.FundingOptions {
		var remains interface{}
		if option.Remains != nil {
			remains = *option.Remains
		}
		options = append(options, gin.H{
			"option_id":        option.ID,
			"amount":           option.Amount,
			"title":            option.Title,
			"remains":          remains,
			"description":      option.Description,
			"selected_funding": detail.OptionCounts[option.ID],
		})
	}

	result := gin.H{
		"id":                    project.ID,
		"title_image_url":       project.TitleImageURL,
		"title":                 project.Title,
		"category":              project.Category.Name,
		"creater":               project.Creater.Username,
		"creater_profile_image": project.Creater.ProfileImageURL,
		"creater_introduction":  project.Creater.Introduction,
		"summary":               project.Summary,
		"funding_amount":        detail.FundingAmount,
		"target_amount":         project.TargetFund,
		"total_sponsor":         detail.TotalSponsor,
		"end_date":              project.EndDate,
		"funding_option":        options,
	}
	if viewerID != nil {
		result["is_liked"] = detail.Liked
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Create handles project registration with image uploads
// POST /projects (multipart: data JSON + profile_img + project_img)
func (ctrl *ProjectController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	dataField := c.PostForm("data")
	if dataField == "" {
		apperrors.BadRequest(c, apperrors.KeyError, "data field is required.")
		return
	}

	var req CreateProjectRequest
	if err := json.Unmarshal([]byte(dataField), &req); err != nil {
		apperrors.BadRequest(c, apperrors.KeyError, "data field is not valid JSON.")
		return
	}
	if req.Title == "" || req.Category == "" || req.LaunchDate == "" || req.EndDate == "" {
		apperrors.BadRequest(c, apperrors.KeyError, "title, category, launch_date and end_date are required.")
		return
	}

	launchDate, err := parseDate(req.LaunchDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationError, "launch_date is not a valid date.")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationError, "end_date is not a valid date.")
		return
	}

	profileImageURL, err := ctrl.uploadImage(c, "profile_img", "profile")
	if err != nil {
		apperrors.BadRequest(c, apperrors.InvalidFileType, err.Error())
		return
	}
	titleImageURL, err := ctrl.uploadImage(c, "project_img", "project")
	if err != nil {
		apperrors.BadRequest(c, apperrors.InvalidFileType, err.Error())
		return
	}

	input := service.CreateProjectInput{
		Title:                  req.Title,
		Summary:                req.Summary,
		Category:               req.Category,
		TargetFund:             req.TargetFund,
		LaunchDate:             launchDate,
		EndDate:                endDate,
		Tags:                   req.Tags,
		TitleImageURL:          titleImageURL,
		CreatorIntroduction:    req.Introduction,
		CreatorProfileImageURL: profileImageURL,
	}
	for _, reward := range req.Rewards {
		input.Rewards = append(input.Rewards, service.RewardInput{
			Amount:      reward.Amount,
			Title:       reward.Title,
			Description: reward.Description,
			Remains:     reward.Remains,
		})
	}

	project, err := ctrl.projectService.CreateProject(userID, input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			apperrors.BadRequest(c, apperrors.ValidationError, validationErr.Reason)
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, "Category does not exist.")
			return
		}
		log.Error("Failed to create project", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"project_id": project.ID,
		},
	})
}

// Delete handles creator-only project removal
// DELETE /projects/:id
func (ctrl *ProjectController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	projectID, ok := paramID(c)
	if !ok {
		apperrors.NotFound(c, "Project does not exist.")
		return
	}

	if err := ctrl.projectService.DeleteProject(userID, projectID); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			apperrors.NotFound(c, "Project does not exist.")
			return
		}
		if errors.Is(err, service.ErrNotProjectOwner) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.Forbidden, "Only the creator can delete this project.")
			return
		}
		log.Error("Failed to delete project", err, map[string]interface{}{
			"project_id": projectID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "SUCCESS"})
}

// ExportDonations streams the creator's pledge report as xlsx
// GET /projects/:id/donations/export
func (ctrl *ProjectController) ExportDonations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	projectID, ok := paramID(c)
	if !ok {
		apperrors.NotFound(c, "Project does not exist.")
		return
	}

	f, err := ctrl.pledgeService.ExportDonations(userID, projectID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			apperrors.NotFound(c, "Project does not exist.")
			return
		}
		if errors.Is(err, service.ErrNotProjectOwner) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.Forbidden, "Only the creator can export donations.")
			return
		}
		log.Error("Failed to export donations", err, map[string]interface{}{
			"project_id": projectID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="donations_%d.xlsx"`, projectID))
	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream xlsx", err, map[string]interface{}{
			"project_id": projectID,
		})
	}
}

// Categories returns the fixed category reference data
// GET /categories
func (ctrl *ProjectController) Categories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.projectService.GetCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, gin.H{
			"id":   category.ID,
			"name": category.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"categories": items,
		},
	})
}

// uploadImage 폼 파일을 검증 후 업로드한다. 파일이 없으면 빈 URL을 돌려준다.
func (ctrl *ProjectController) uploadImage(c *gin.Context, field, folder string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// 파일이 첨부되지 않은 경우
		return "", nil
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.IsImageContentType(contentType) {
		return "", fmt.Errorf("%s is not an allowed image type", contentType)
	}

	if ctrl.uploader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file")
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	url, uploadErr := ctrl.uploader.Upload(c.Request.Context(), file, fileHeader.Filename, contentType, folder)
	if uploadErr != nil {
		return "", fmt.Errorf("failed to store uploaded file")
	}
	return url, nil
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func queryFloat(c *gin.Context, key string, prev error) (*float64, error) {
	if prev != nil {
		return nil, prev
	}
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s is not a number", key)
	}
	return &value, nil
}

func queryInt64(c *gin.Context, key string, prev error) (*int64, error) {
	if prev != nil {
		return nil, prev
	}
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s is not a number", key)
	}
	return &value, nil
}
