package model

import (
	"time"
)

// Donation 한 사용자가 한 옵션에 후원한 기록
// ProjectID는 항상 옵션의 소속 프로젝트에서 파생되며 호출자가 넘긴 값을 쓰지 않는다
type Donation struct {
	ID              uint      `gorm:"primarykey" json:"id"`                    // 후원 ID
	UserID          uint      `gorm:"not null;index" json:"user_id"`           // 후원자 ID
	ProjectID       uint      `gorm:"not null;index" json:"project_id"`        // 프로젝트 ID
	FundingOptionID uint      `gorm:"not null;index" json:"funding_option_id"` // 선택한 옵션 ID
	CreatedAt       time.Time `json:"created_at"`                              // 생성 시각
	UpdatedAt       time.Time `json:"updated_at"`                              // 수정 시각

	User          User          `gorm:"foreignKey:UserID" json:"user,omitempty"`                   // 후원자 정보
	Project       Project       `gorm:"foreignKey:ProjectID" json:"-"`                             // 프로젝트 정보
	FundingOption FundingOption `gorm:"foreignKey:FundingOptionID" json:"funding_option,omitempty"` // 옵션 정보
}

func (Donation) TableName() string {
	return "donations"
}
