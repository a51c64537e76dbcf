package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideavine-backend/application/services"
	"ideavine-backend/domain/core/valueobjects"
	"ideavine-backend/pkg/common"
	"ideavine-backend/pkg/utils"
)

// MindMapHandler serves the mindmap and node endpoints.
type MindMapHandler struct {
	mindmaps *services.MindMapService
	logger   *zap.Logger
}

// NewMindMapHandler creates a MindMapHandler.
func NewMindMapHandler(mindmaps *services.MindMapService, logger *zap.Logger) *MindMapHandler {
	return &MindMapHandler{mindmaps: mindmaps, logger: logger}
}

type nodeInput struct {
	ID       string                `json:"_id"`
	Title    string                `json:"title" validate:"required"`
	Content  string                `json:"content"`
	Position valueobjects.Position `json:"position"`
	Parents  []string              `json:"parents"`
}

type nodeUpdateInput struct {
	NodeID   string                 `json:"node_id" validate:"required"`
	Title    *string                `json:"title"`
	Content  *string                `json:"content"`
	Position *valueobjects.Position `json:"position"`
	Parents  []string               `json:"parents"`
}

type createMindMapRequest struct {
	MindmapID   string      `json:"mindmap_id"`
	UserEmail   string      `json:"user_email"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Nodes       []nodeInput `json:"nodes" validate:"dive"`
}

// Create handles POST /mindmaps.
func (h *MindMapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMindMapRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for field, value := range map[string]string{
		"mindmap_id": req.MindmapID,
		"user_email": req.UserEmail,
		"title":      req.Title,
	} {
		if value == "" {
			common.RespondError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := services.CreateMindMapInput{
		MindmapID:   req.MindmapID,
		UserEmail:   req.UserEmail,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	for _, n := range req.Nodes {
		input.Nodes = append(input.Nodes, services.NewNodeInput{
			ID:       n.ID,
			Title:    n.Title,
			Content:  n.Content,
			Position: n.Position,
			Parents:  n.Parents,
		})
	}

	mindmap, nodes, err := h.mindmaps.Create(r.Context(), input)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Mindmap created successfully",
		"mindmap": mindmap,
		"nodes":   nodes,
	})
}

type updateMindMapRequest struct {
	Title         *string           `json:"title"`
	Description   *string           `json:"description"`
	NodesToAdd    []nodeInput       `json:"nodes_to_add" validate:"dive"`
	NodesToUpdate []nodeUpdateInput `json:"nodes_to_update" validate:"dive"`
	NodesToDelete []string          `json:"nodes_to_delete"`
}

// Update handles PUT /mindmaps/{mindmapID}.
func (h *MindMapHandler) Update(w http.ResponseWriter, r *http.Request) {
	mindmapID := chi.URLParam(r, "mindmapID")

	var req updateMindMapRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := services.UpdateMindMapInput{
		Title:         req.Title,
		Description:   req.Description,
		NodesToDelete: req.NodesToDelete,
	}
	for _, n := range req.NodesToAdd {
		input.NodesToAdd = append(input.NodesToAdd, services.NewNodeInput{
			ID:       n.ID,
			Title:    n.Title,
			Content:  n.Content,
			Position: n.Position,
			Parents:  n.Parents,
		})
	}
	for _, n := range req.NodesToUpdate {
		input.NodesToUpdate = append(input.NodesToUpdate, services.NodeUpdateInput{
			NodeID:   n.NodeID,
			Title:    n.Title,
			Content:  n.Content,
			Position: n.Position,
			Parents:  n.Parents,
		})
	}

	mindmap, changes, err := h.mindmaps.Update(r.Context(), mindmapID, input)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Mindmap updated successfully",
		"mindmap": mindmap,
		"nodes": map[string]interface{}{
			"added":   changes.Added,
			"updated": changes.Updated,
			"deleted": changes.Deleted,
		},
	})
}

// Delete handles DELETE /mindmaps/{mindmapID}.
func (h *MindMapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mindmapID := chi.URLParam(r, "mindmapID")

	deleted, err := h.mindmaps.Delete(r.Context(), mindmapID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":             "Mindmap deleted successfully",
		"deleted_nodes_count": deleted,
	})
}

// ListByUser handles GET /users/{userID}/mindmaps.
func (h *MindMapHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	mindmaps, err := h.mindmaps.ListByUser(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"mindmaps": mindmaps})
}

// ListNodes handles GET /mindmaps/{mindmapID}/nodes.
func (h *MindMapHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	mindmapID := chi.URLParam(r, "mindmapID")

	mindmap, nodes, err := h.mindmaps.ListNodes(r.Context(), mindmapID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mindmap": mindmap,
		"nodes":   nodes,
	})
}
