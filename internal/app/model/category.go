package model

// Category 프로젝트 분류 (정적 참조 데이터)
type Category struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}
