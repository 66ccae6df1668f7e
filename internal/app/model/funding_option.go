package model

// 기본 선물(무보상 옵션)은 프로젝트 등록 시 항상 함께 생성된다
const (
	DefaultOptionAmount      int64 = 1000
	DefaultOptionTitle             = "선물을 선택하지 않고 밀어만 줍니다."
	DefaultOptionDescription       = "기본 선물"
)

type FundingOption struct {
	ID          uint   `gorm:"primarykey" json:"id"`              // 옵션 ID
	ProjectID   uint   `gorm:"not null;index" json:"project_id"`  // 소속 프로젝트 ID
	Amount      int64  `gorm:"not null" json:"amount"`            // 후원 금액 (원)
	Title       string `gorm:"type:varchar(100)" json:"title"`    // 선물 이름
	Description string `gorm:"type:text" json:"description"`      // 선물 설명
	Remains     *int64 `json:"remains"`                           // 남은 수량 (null = 무제한)

	Project   Project    `gorm:"foreignKey:ProjectID" json:"-"`                                  // 소속 프로젝트
	Donations []Donation `gorm:"foreignKey:FundingOptionID;constraint:OnDelete:CASCADE" json:"-"` // 이 옵션의 후원 내역
}

func (FundingOption) TableName() string {
	return "funding_options"
}
