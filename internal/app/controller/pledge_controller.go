package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	apperrors "github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
)

type PledgeController struct {
	pledgeService service.PledgeService
}

func NewPledgeController(pledgeService service.PledgeService) *PledgeController {
	return &PledgeController{
		pledgeService: pledgeService,
	}
}

type PledgeRequest struct {
	OptionID uint `json:"option_id"`
	// 초기 클라이언트가 보내던 필드. 받기만 하고 쓰지 않는다.
	ID uint `json:"id"`
}

// Pledge handles a donation to a funding option
// PUT /projects
func (ctrl *PledgeController) Pledge(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	var req PledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OptionID == 0 {
		apperrors.RespondWithMessages(c, http.StatusBadRequest, apperrors.KeyError)
		return
	}

	donation, err := ctrl.pledgeService.Pledge(userID, req.OptionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFundingOptionNotFound):
			apperrors.RespondWithMessages(c, http.StatusNotFound, apperrors.DoesNotExist)
		case errors.Is(err, service.ErrNoStock):
			apperrors.RespondWithMessages(c, http.StatusBadRequest, apperrors.NoStock)
		default:
			log.Error("Pledge failed", err, map[string]interface{}{
				"user_id":   userID,
				"option_id": req.OptionID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"donation_id": donation.ID,
			"project_id":  donation.ProjectID,
		},
	})
}
