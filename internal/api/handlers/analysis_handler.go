package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/services"
	"github.com/precisionhealth/skinsight-be/internal/vision"
)

// maxImageBytes caps uploaded image size at 10 MiB.
const maxImageBytes = 10 << 20

// AnalysisHandler handles image analysis and chat requests.
type AnalysisHandler struct {
	service  services.AnalysisServiceProvider
	eventSvc services.EventServiceProvider
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(service services.AnalysisServiceProvider, eventSvc services.EventServiceProvider) *AnalysisHandler {
	return &AnalysisHandler{service: service, eventSvc: eventSvc}
}

// Analyze handles POST /api/analyze: multipart image plus optional patient
// fields, returning the structured array contract.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	image, ok := readImage(w, r)
	if !ok {
		return
	}

	patient := &vision.PatientContext{
		Name:     r.FormValue("name"),
		Duration: r.FormValue("duration"),
		Symptoms: r.FormValue("symptoms"),
	}

	subject, _ := auth.SubjectFromContext(r.Context())
	log.Info().Str("username", subject).Msg("Analysis request received")

	results, err := h.service.AnalyzeImage(r.Context(), image, patient)
	if err != nil {
		log.Error().Err(err).Str("username", subject).Msg("Analysis failed")
		writeError(w, err)
		return
	}

	h.eventSvc.Record("analysis.complete", "info", "Analysis completed for user: "+subject)

	writeJSON(w, http.StatusOK, results)
}

// AnalyzeLegacy handles POST /api/v1/analyze, preserving the historical
// {"analysis": ..., "success": true} response shape.
func (h *AnalysisHandler) AnalyzeLegacy(w http.ResponseWriter, r *http.Request) {
	image, ok := readImage(w, r)
	if !ok {
		return
	}

	subject, _ := auth.SubjectFromContext(r.Context())
	log.Info().Str("username", subject).Msg("Legacy analysis request received")

	result, err := h.service.AnalyzeImageRaw(r.Context(), image)
	if err != nil {
		log.Error().Err(err).Str("username", subject).Msg("Legacy analysis failed")
		writeError(w, err)
		return
	}

	h.eventSvc.Record("analysis.complete", "info", "Analysis completed for user: "+subject)

	writeJSON(w, http.StatusOK, result)
}

// ChatPayload defines the structure for chat requests.
type ChatPayload struct {
	Message string            `json:"message"`
	History []vision.ChatTurn `json:"history"`
}

// Chat handles POST /api/chat.
func (h *AnalysisHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload ChatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Message == "" {
		http.Error(w, "Missing message", http.StatusBadRequest)
		return
	}

	reply, err := h.service.ChatReply(r.Context(), payload.Message, payload.History)
	if err != nil {
		log.Error().Err(err).Msg("Chat request failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// readImage extracts the uploaded image bytes, writing the error response
// itself when the upload is unusable.
func readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		http.Error(w, "Could not read image", http.StatusBadRequest)
		return nil, false
	}
	if len(image) == 0 {
		http.Error(w, "Empty image file", http.StatusBadRequest)
		return nil, false
	}
	return image, true
}
