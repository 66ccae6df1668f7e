package model

import (
	"time"
)

type User struct {
	ID              uint      `gorm:"primarykey" json:"id"`                         // 사용자 ID
	Username        string    `gorm:"type:varchar(40);not null" json:"username"`    // 사용자 이름
	Introduction    string    `gorm:"type:text" json:"introduction,omitempty"`      // 창작자 소개
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`            // 이메일
	PasswordHash    string    `gorm:"not null" json:"-"`                            // 비밀번호 해시
	ProfileImageURL string    `gorm:"type:varchar(2000)" json:"profile_image_url"`  // 프로필 이미지 URL
	KakaoID         *int64    `gorm:"uniqueIndex" json:"kakao_id,omitempty"`        // 카카오 소셜 로그인 ID
	CreatedAt       time.Time `json:"created_at"`                                   // 생성 시각
	UpdatedAt       time.Time `json:"updated_at"`                                   // 수정 시각

	Projects  []Project  `gorm:"foreignKey:CreaterID" json:"-"` // 개설한 프로젝트 목록
	Donations []Donation `gorm:"foreignKey:UserID" json:"-"`    // 후원 내역
	Likes     []Like     `gorm:"foreignKey:UserID" json:"-"`    // 좋아요 목록
}

func (User) TableName() string {
	return "users"
}
