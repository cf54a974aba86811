package model

type StudentModel struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	StudentNumber string `gorm:"size:32;not null;uniqueIndex" json:"student_number"`
	Name          string `gorm:"size:255;not null" json:"name"`
}

func (StudentModel) TableName() string {
	return "students"
}
