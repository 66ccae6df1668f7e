package model

import (
	"time"
)

// Like (user, project) 좋아요 관계
// 행의 존재가 곧 "좋아요" 상태. 유일성은 토글 트랜잭션이 직렬화로 보장한다
type Like struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
