package model

// Tag 프로젝트에 연결할 수 있는 태그
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(45);uniqueIndex;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// ProjectTag 프로젝트와 태그의 다대다 관계
type ProjectTag struct {
	ProjectID uint    `gorm:"primaryKey;index" json:"project_id"`
	TagID     uint    `gorm:"primaryKey;index" json:"tag_id"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Tag       Tag     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tag,omitempty"`
}

func (ProjectTag) TableName() string {
	return "project_tags"
}
