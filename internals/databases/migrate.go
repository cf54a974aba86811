package database

import (
	"log"

	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	promotionModel "gestionabsence_backend/internals/features/promotion/model"
	authModel "gestionabsence_backend/internals/features/users/auth/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&semesterModel.SemesterModel{},
		&groupModel.GroupModel{},
		&studentModel.StudentModel{},
		&inscriptionModel.InscriptionModel{},
		&courseModel.CourseMaterialModel{},
		&sessionTypeModel.SessionTypeGlobalModel{},
		&sessionTypeModel.SessionTypeModel{},
		&userModel.UserModel{},
		&slotModel.SlotModel{},
		&presenceModel.PresenceModel{},
		&authModel.TokenBlacklist{},
		&promotionModel.PromotionRunModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("✅ Schema migrated.")
	return nil
}
