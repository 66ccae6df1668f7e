package controller

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	apperrors "github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
	ws "github.com/tteokbok/tteokbok-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 후원 피드는 읽기 전용 공개 스트림이라 오리진을 제한하지 않는다
		return true
	},
}

type LiveController struct {
	projectService service.ProjectService
	hub            *ws.Hub
}

func NewLiveController(projectService service.ProjectService, hub *ws.Hub) *LiveController {
	return &LiveController{
		projectService: projectService,
		hub:            hub,
	}
}

// Feed subscribes the caller to a project's realtime pledge events
// GET /projects/:id/live
func (ctrl *LiveController) Feed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	projectID, ok := paramID(c)
	if !ok {
		apperrors.NotFound(c, "Project does not exist.")
		return
	}

	// 존재하지 않는 프로젝트는 업그레이드 전에 거른다
	if _, err := ctrl.projectService.GetProjectDetail(projectID, nil); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			apperrors.NotFound(c, "Project does not exist.")
			return
		}
		log.Error("Failed to check project before live feed", err, map[string]interface{}{
			"project_id": projectID,
		})
		apperrors.InternalError(c, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, map[string]interface{}{
			"project_id": projectID,
		})
		return
	}

	client := ws.NewClient(ctrl.hub, conn, projectID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
