package model

import (
	"time"
)

// ProjectStatus 프로젝트 라이프사이클 상태
// 평가 시점(now) 기준으로 매번 새로 계산되며 저장되지 않음
type ProjectStatus string

const (
	StatusScheduled ProjectStatus = "scheduled" // 공개 예정
	StatusActive    ProjectStatus = "ing"       // 진행 중
	StatusDone      ProjectStatus = "done"      // 종료
)

// StatusAt는 단일 now 스냅샷에 대한 상태를 계산한다
func StatusAt(now, launchDate, endDate time.Time) ProjectStatus {
	switch {
	case endDate.Before(now):
		return StatusDone
	case launchDate.After(now):
		return StatusScheduled
	default:
		return StatusActive
	}
}

type Project struct {
	ID            uint      `gorm:"primarykey" json:"id"`                          // 프로젝트 ID
	Title         string    `gorm:"type:varchar(100);not null" json:"title"`       // 제목
	CreaterID     uint      `gorm:"not null;index" json:"creater_id"`              // 창작자 ID
	Summary       string    `gorm:"type:text" json:"summary"`                      // 소개글
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`             // 카테고리 ID
	TitleImageURL string    `gorm:"type:varchar(2000)" json:"title_image_url"`     // 대표 이미지 URL
	TargetFund    int64     `gorm:"not null" json:"target_fund"`                   // 목표 금액 (원)
	LaunchDate    time.Time `gorm:"not null" json:"launch_date"`                   // 공개일
	EndDate       time.Time `gorm:"not null;index" json:"end_date"`                // 종료일
	CreatedAt     time.Time `json:"created_at"`                                    // 생성 시각

	Creater        User            `gorm:"foreignKey:CreaterID" json:"creater,omitempty"`                                   // 창작자 정보
	Category       Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`                                 // 카테고리 정보
	FundingOptions []FundingOption `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"funding_options,omitempty"` // 선물(후원 옵션) 목록
	Donations      []Donation      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`                        // 후원 내역
	Likes          []Like          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`                        // 좋아요 목록
	Tags           []Tag           `gorm:"many2many:project_tags" json:"tags,omitempty"`                                     // 태그 목록
}

func (Project) TableName() string {
	return "projects"
}

// ProjectStats 목록/상세 조회 시 덧붙는 파생 지표
// 캐시하지 않고 질의마다 새로 집계한다
type ProjectStats struct {
	Project
	FundingAmount int64         `json:"funding_amount"` // 후원 총액
	FundingCount  int64         `json:"funding_count"`  // 후원 건수
	Progress      float64       `json:"progress"`       // 달성률 (100 * 후원액 / 목표액, 100 초과 허용)
	Status        ProjectStatus `json:"status"`         // 조회 시점 기준 상태
	Liked         bool          `json:"is_liked"`       // 조회자의 좋아요 여부
	Donated       bool          `json:"is_donated"`     // 조회자의 후원 여부
}
