package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aftercare-ai-be/internal/bootstrap"
	"aftercare-ai-be/internal/config"
	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/model"
	"aftercare-ai-be/internal/pkg/serverutils"
	"aftercare-ai-be/internal/server"
	"aftercare-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

// Walks the receptionist flow end-to-end over HTTP: unknown identity,
// identity match against a seeded patient, small talk, state and
// history endpoints. The clinical stage needs live LLM and embedding
// providers, so it is exercised separately by scripts/test_assistant_api.go.
func TestAssistantIdentityFlow(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Skipf("Skipping: database unavailable: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// Seed a discharged patient to identify against
	patientCode := "PT-IT-01"
	patient := model.Patient{
		Id:             uuid.New(),
		PatientCode:    patientCode,
		Name:           "Test Patient",
		Age:            52,
		Gender:         "female",
		Diagnosis:      "Chronic kidney disease, stage 3",
		Symptoms:       datatypes.JSON([]byte(`["fatigue"]`)),
		LabResults:     datatypes.JSON([]byte(`{"eGFR": "50 mL/min"}`)),
		Medications:    datatypes.JSON([]byte(`["lisinopril 10mg daily"]`)),
		TreatmentPlan:  "Renal diet and quarterly follow-up.",
		FollowUp:       "Nephrology clinic on September 15, 2026.",
		DateAdmitted:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		DateDischarged: time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Now(),
	}

	db.Where("patient_code = ?", patientCode).Delete(&model.Patient{})
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("Failed to seed patient: %v", err)
	}

	sessionId := "it-assistant-" + uuid.NewString()[:8]

	defer func() {
		// Cleanup seeded patient and the persisted conversation
		var chatSession model.ChatSession
		if db.Where("external_id = ?", sessionId).First(&chatSession).Error == nil {
			db.Unscoped().Where("chat_session_id = ?", chatSession.Id).Delete(&model.ChatMessage{})
			db.Unscoped().Delete(&chatSession)
		}
		db.Unscoped().Where("patient_code = ?", patientCode).Delete(&model.Patient{})
	}()

	sendChat := func(t *testing.T, message string) dto.SendMessageResponse {
		t.Helper()

		reqBody := dto.SendMessageRequest{
			SessionId: sessionId,
			Message:   message,
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/assistant/v1/chat", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.SendMessageResponse]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)
		return result.Data
	}

	t.Run("Unknown identity keeps receptionist stage", func(t *testing.T) {
		reply := sendChat(t, "PT-NOSUCH")

		assert.Equal(t, "AWAITING_IDENTITY", reply.State)
		assert.NotEmpty(t, reply.Reply)
		assert.Empty(t, reply.Sources)
	})

	t.Run("Patient code identifies the session", func(t *testing.T) {
		reply := sendChat(t, patientCode)

		assert.Equal(t, "IDENTIFIED", reply.State)
		assert.Contains(t, reply.Reply, patient.Name)
	})

	t.Run("Small talk stays identified", func(t *testing.T) {
		reply := sendChat(t, "Thank you so much!")

		assert.Equal(t, "IDENTIFIED", reply.State)
		assert.Empty(t, reply.Route)
	})

	t.Run("State endpoint reflects the live session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/assistant/v1/sessions/"+sessionId+"/state", nil)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.SessionStateResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.Equal(t, "IDENTIFIED", result.Data.State)
		assert.Equal(t, patient.Name, result.Data.PatientName)
		assert.False(t, result.Data.Anonymous)
	})

	t.Run("History endpoint returns the persisted exchange", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/assistant/v1/sessions/"+sessionId+"/history", nil)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[[]dto.ChatHistoryItemResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		// 3 exchanges so far, each persisted as user + model rows
		assert.Len(t, result.Data, 6)
		if len(result.Data) > 0 {
			assert.Equal(t, "user", result.Data[0].Role)
		}
	})
}
