package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	apperrors "github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
)

type LikeController struct {
	likeService service.LikeService
}

func NewLikeController(likeService service.LikeService) *LikeController {
	return &LikeController{
		likeService: likeService,
	}
}

// Toggle flips the caller's like on a project
// PATCH /projects/:id
func (ctrl *LikeController) Toggle(c *gin.Context) {
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

	liked, err := ctrl.likeService.Toggle(userID, projectID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			apperrors.NotFound(c, "Project does not exist.")
			return
		}
		log.Error("Like toggle failed", err, map[string]interface{}{
			"user_id":    userID,
			"project_id": projectID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"is_liked": liked,
		},
	})
}
