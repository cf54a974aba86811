package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRoute "gestionabsence_backend/internals/features/academics/course_materials/route"
	groupRoute "gestionabsence_backend/internals/features/academics/groups/route"
	inscriptionRoute "gestionabsence_backend/internals/features/academics/inscriptions/route"
	semesterRoute "gestionabsence_backend/internals/features/academics/semesters/route"
	sessionTypeRoute "gestionabsence_backend/internals/features/academics/session_types/route"
	studentRoute "gestionabsence_backend/internals/features/academics/students/route"
	presenceRoute "gestionabsence_backend/internals/features/attendance/presences/route"
	slotRoute "gestionabsence_backend/internals/features/attendance/slots/route"
	csvRoute "gestionabsence_backend/internals/features/csvimport/route"
	promotionRoute "gestionabsence_backend/internals/features/promotion/route"
	authRoute "gestionabsence_backend/internals/features/users/auth/route"
	userRoute "gestionabsence_backend/internals/features/users/user/route"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/storage"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, rc *cache.Cache, store storage.BlobStore) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api")

	// ===================== USERS =====================
	log.Println("[INFO] Mounting auth & user routes...")
	authRoute.AuthRoutes(api, db)
	userRoute.UserRoutes(api, db, rc)

	// ===================== ACADEMICS =====================
	log.Println("[INFO] Mounting academic routes...")
	semesterRoute.SemesterRoutes(api, db)
	groupRoute.GroupRoutes(api, db, rc)
	studentRoute.StudentRoutes(api, db, rc)
	inscriptionRoute.InscriptionRoutes(api, db, rc)
	courseRoute.CourseMaterialRoutes(api, db, rc)
	sessionTypeRoute.SessionTypeRoutes(api, db, rc)

	// ===================== ATTENDANCE =====================
	log.Println("[INFO] Mounting attendance routes...")
	slotRoute.SlotRoutes(api, db, rc)
	presenceRoute.PresenceRoutes(api, db, rc, store)

	// ===================== ADMIN TOOLS =====================
	log.Println("[INFO] Mounting promotion & csv routes...")
	promotionRoute.PromotionRoutes(api, db, rc)
	csvRoute.CSVImportRoutes(api, db, rc)
}
