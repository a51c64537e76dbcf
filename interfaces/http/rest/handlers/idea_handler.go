package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"ideavine-backend/application/services"
	"ideavine-backend/pkg/common"
)

// Whisper rejects uploads above 25 MB, so there is no point accepting
// more than that here.
const maxAudioBody = 25 << 20

// IdeaHandler serves the AI-assisted endpoints.
type IdeaHandler struct {
	ideas  *services.IdeaService
	logger *zap.Logger
}

// NewIdeaHandler creates an IdeaHandler.
func NewIdeaHandler(ideas *services.IdeaService, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, logger: logger}
}

// ProcessAudio handles POST /process_audio. The recording arrives as
// the multipart field "audio_file".
func (h *IdeaHandler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	file, header, err := r.FormFile("audio_file")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBody))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}

	nodes, err := h.ideas.ProcessAudio(r.Context(), audio, header.Filename)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"nodes": nodes})
}

type ideaNodesRequest struct {
	Nodes []services.IdeaInput `json:"nodes"`
}

// Synthesize handles POST /synthesize.
func (h *IdeaHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req ideaNodesRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.ideas.Synthesize(r.Context(), req.Nodes)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, node)
}

// Write handles POST /write.
func (h *IdeaHandler) Write(w http.ResponseWriter, r *http.Request) {
	var req ideaNodesRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	essay, err := h.ideas.Write(r.Context(), req.Nodes)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, essay)
}
