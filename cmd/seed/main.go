package main

import (
	"log"
	"os"
	"time"

	"aftercare-ai-be/internal/model"
	"aftercare-ai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding aftercare data\n")

	seedStaffUser(db)
	seedPatients(db)

	color.Green("\n✅ Seeding completed.")
}

func seedStaffUser(db *gorm.DB) {
	color.Yellow("\n[1] Staff user")

	hash, _ := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	hashStr := string(hash)

	user := model.User{
		Id:           uuid.New(),
		Email:        "nurse.demo@aftercare.local",
		FullName:     "Demo Nurse",
		PasswordHash: &hashStr,
		Role:         "staff",
		Status:       "active",
		CreatedAt:    time.Now(),
	}

	if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
		color.Red("Failed to seed user: %v", err)
		return
	}
	color.Green("   %s (password: changeme123)", user.Email)
}

func seedPatients(db *gorm.DB) {
	color.Yellow("\n[2] Discharged patients")

	patients := []model.Patient{
		{
			Id:             uuid.New(),
			PatientCode:    "PT-1001",
			Name:           "Maria Santos",
			Age:            58,
			Gender:         "female",
			Diagnosis:      "Chronic kidney disease, stage 3",
			Symptoms:       datatypes.JSON([]byte(`["fatigue", "ankle swelling", "reduced appetite"]`)),
			LabResults:     datatypes.JSON([]byte(`{"eGFR": "48 mL/min", "creatinine": "1.6 mg/dL", "potassium": "4.9 mmol/L"}`)),
			Medications:    datatypes.JSON([]byte(`["lisinopril 10mg daily", "furosemide 20mg daily"]`)),
			TreatmentPlan:  "Low-sodium renal diet, blood pressure control, nephrology follow-up every 3 months.",
			DoctorNotes:    "Counseled on avoiding NSAIDs. Monitor potassium at next visit.",
			FollowUp:       "Nephrology clinic on September 15, 2026.",
			Email:          "maria.santos@example.com",
			DateAdmitted:   time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC),
			DateDischarged: time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Now(),
		},
		{
			Id:             uuid.New(),
			PatientCode:    "PT-1002",
			Name:           "James Okafor",
			Age:            64,
			Gender:         "male",
			Diagnosis:      "Acute kidney injury, resolved",
			Symptoms:       datatypes.JSON([]byte(`["oliguria", "nausea", "confusion"]`)),
			LabResults:     datatypes.JSON([]byte(`{"eGFR": "62 mL/min", "creatinine": "1.2 mg/dL"}`)),
			Medications:    datatypes.JSON([]byte(`["amlodipine 5mg daily"]`)),
			TreatmentPlan:  "Hydration plan, repeat renal panel in 4 weeks.",
			DoctorNotes:    "AKI secondary to dehydration. Full recovery expected.",
			FollowUp:       "Primary care on September 2, 2026.",
			Email:          "james.okafor@example.com",
			DateAdmitted:   time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
			DateDischarged: time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Now(),
		},
		{
			Id:             uuid.New(),
			PatientCode:    "PT-1003",
			Name:           "Maria Chen",
			Age:            47,
			Gender:         "female",
			Diagnosis:      "Nephrotic syndrome",
			Symptoms:       datatypes.JSON([]byte(`["periorbital edema", "foamy urine", "weight gain"]`)),
			LabResults:     datatypes.JSON([]byte(`{"urine protein": "4.2 g/day", "albumin": "2.4 g/dL"}`)),
			Medications:    datatypes.JSON([]byte(`["prednisone 40mg daily", "atorvastatin 20mg daily"]`)),
			TreatmentPlan:  "Steroid taper per schedule, daily weight log, low-sodium diet.",
			DoctorNotes:    "Biopsy pending. Watch for signs of infection while on steroids.",
			FollowUp:       "Nephrology clinic on August 28, 2026.",
			Email:          "maria.chen@example.com",
			DateAdmitted:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			DateDischarged: time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Now(),
		},
	}

	for _, p := range patients {
		if err := db.Where("patient_code = ?", p.PatientCode).FirstOrCreate(&p).Error; err != nil {
			color.Red("Failed to seed patient %s: %v", p.PatientCode, err)
			continue
		}
		color.Green("   %-8s %-14s %s", p.PatientCode, p.Name, p.Diagnosis)
	}
}
