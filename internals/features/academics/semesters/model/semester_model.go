package model

// SemesterModel is one of the six licence semesters (S1..S6).
type SemesterModel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:10;not null;uniqueIndex" json:"name"`
}

func (SemesterModel) TableName() string {
	return "semesters"
}
