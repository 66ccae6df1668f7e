package websocket

import (
	"encoding/json"
	"sync"

	"github.com/tteokbok/tteokbok-backend/pkg/logger"
)

// PledgeEvent 프로젝트 실시간 피드로 내보내는 후원 이벤트
type PledgeEvent struct {
	Type            string `json:"type"` // pledge
	ProjectID       uint   `json:"project_id"`
	FundingOptionID uint   `json:"funding_option_id"`
	Amount          int64  `json:"amount"`
	Username        string `json:"username"`
}

// Hub 프로젝트별 실시간 피드 연결 관리자
type Hub struct {
	// 프로젝트별 구독 중인 클라이언트들 (ProjectID -> clients)
	projects map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu sync.RWMutex
}

type broadcastMessage struct {
	ProjectID uint
	Message   []byte
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		projects:   make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.projects[client.ProjectID]; !ok {
				h.projects[client.ProjectID] = make(map[*Client]bool)
			}
			h.projects[client.ProjectID][client] = true
			count := len(h.projects[client.ProjectID])
			h.mu.Unlock()
			logger.Info("Live feed client registered", map[string]interface{}{
				"project_id": client.ProjectID,
				"viewers":    count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.projects[client.ProjectID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.projects, client.ProjectID)
					}
				}
			}
			h.mu.Unlock()
			logger.Info("Live feed client unregistered", map[string]interface{}{
				"project_id": client.ProjectID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.projects[message.ProjectID] {
				select {
				case client.Send <- message.Message:
				default:
					// Send 채널이 막혀있음 - 비동기로 정리
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"project_id": message.ProjectID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishPledge 프로젝트를 구독 중인 모든 클라이언트에 후원 이벤트를 전송한다.
// 채널이 가득 차면 이벤트를 버린다. 피드 손실이 후원 처리에 영향을 주면 안 된다.
func (h *Hub) PublishPledge(event PledgeEvent) {
	event.Type = "pledge"

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal pledge event", err, nil)
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{ProjectID: event.ProjectID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, pledge event dropped", map[string]interface{}{
			"project_id": event.ProjectID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ViewerCount 프로젝트 구독자 수
func (h *Hub) ViewerCount(projectID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projects[projectID])
}
