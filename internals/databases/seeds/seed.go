package seeds

import (
	"fmt"
	"log"

	"gestionabsence_backend/internals/configs"
	"gestionabsence_backend/internals/constants"
	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var SemesterNames = []string{"S1", "S2", "S3", "S4", "S5", "S6"}

var SessionTypeNames = []string{"CM", "TD", "TP"}

var CourseMaterialsBySemester = map[string][]string{
	"S1": {
		"Introduction à la statistique", "Analyse réelle 1", "Algèbre linéaire 1",
		"Initiation à l'informatique et à l'algorithmique", "Introduction aux sciences cognitives",
		"Introduction aux sciences économiques", "Anglais 1", "Méthodologie du travail universitaire",
	},
	"S2": {
		"Algèbre linéaire 2", "Analyse réelle 2", "Probabilités 1", "Programmation fonctionnelle",
		"Balises en méthodologie expérimentale", "Cognition : du neurone à la pensée",
		"Langage et cognition", "Microéconomie 1", "Macroéconomie 1", "Anglais 2",
	},
	"S3": {
		"Algèbre linéaire 3", "Analyse réelle 3", "Probabilités 2",
		"Algorithmique et programmation par objets", "Cognition : invariants et différences",
		"Cognition : perception et motricité", "Cognition et développement", "Anglais 3",
		"Microéconomie 2", "Macroéconomie 2",
	},
	"S4": {
		"Statistique mathématique 1", "Mathématiques pour l'informatique",
		"Introduction aux bases de données", "Langages formels et calculabilité",
		"Programmation logique", "Microéconomie 3", "Macroéconomie 3", "Anglais 4",
		"Cognition et ergonomie", "Cognition : mémoire(s) et représentations", "Langage et cerveau",
	},
	"S5": {
		"Statistique mathématique 2", "Programmation objet avancée et structure de données",
		"Cognition et apprentissage(s)", "Cognition distribuée", "Mathématiques complémentaires",
		"Initiation à L'IA", "Econométrie 1",
	},
	"S6": {
		"Statistique mathématique 3", "Réseaux", "Systèmes",
		"Cognition ou intelligence(s) : l'intégration", "Modélisation des fonctions langagières",
		"Introduction aux technologies du web", "Compléments de mathématiques 2",
		"Économie des contrats et des relations verticales", "Econométrie 2",
	},
}

// Run is idempotent: existing rows are left untouched.
func Run(db *gorm.DB) error {
	log.Println("[SEED] starting...")

	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range SemesterNames {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&semesterModel.SemesterModel{Name: name}).Error; err != nil {
				return fmt.Errorf("seed semester %s: %w", name, err)
			}
		}
		log.Println("[SEED] semesters S1..S6 ok")

		for _, semName := range SemesterNames {
			var sem semesterModel.SemesterModel
			if err := tx.Where("name = ?", semName).First(&sem).Error; err != nil {
				return fmt.Errorf("seed lookup %s: %w", semName, err)
			}
			for _, course := range CourseMaterialsBySemester[semName] {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&courseModel.CourseMaterialModel{Name: course, SemesterID: sem.ID}).Error; err != nil {
					return fmt.Errorf("seed course %q: %w", course, err)
				}
			}
		}
		log.Println("[SEED] course materials ok")

		for _, name := range SessionTypeNames {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&sessionTypeModel.SessionTypeGlobalModel{Name: name}).Error; err != nil {
				return fmt.Errorf("seed session type %s: %w", name, err)
			}
		}
		log.Println("[SEED] session types CM/TD/TP ok")

		email := configs.GetEnv("SEED_ADMIN_EMAIL", "gestionnaire@univ-grenoble-alpes.fr")
		password := configs.GetEnv("SEED_ADMIN_PASSWORD", "admin")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := userModel.UserModel{
			Name:     "Admin Principal",
			Email:    email,
			Password: string(hash),
			Role:     constants.RoleManager,
			IsActive: true,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
			return fmt.Errorf("seed manager: %w", err)
		}
		log.Printf("[SEED] manager account ok (%s)", email)
		return nil
	})
}
