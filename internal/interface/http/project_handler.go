package http

import (
	"net/http"

	"go.uber.org/zap"

	usecase "taskflow/internal/usecase/project"
)

// ProjectHandler は /api/projects 配下を処理する HTTP ハンドラ。
type ProjectHandler struct {
	svc *usecase.Service
	responder
}

// NewProjectHandler は ProjectHandler を生成する。
func NewProjectHandler(svc *usecase.Service, logger *zap.Logger) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{svc: svc, responder: responder{logger: logger}}
}

// CreateProjectRequest は POST /api/projects のリクエストボディ。
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerUserID string `json:"ownerUserId"`
}

// UpdateProjectRequest は PUT /api/projects/{id} のリクエストボディ。
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     *int   `json:"version"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	owner, err := parseUUID("ownerUserId", req.OwnerUserID)
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}

	dto, err := h.svc.Create(r.Context(), usecase.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerUserID: owner,
	})
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	h.json(w, http.StatusCreated, dto)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	dto, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	h.json(w, http.StatusOK, dto)
}

func (h *ProjectHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	list, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	h.json(w, http.StatusOK, list)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	var req UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, locationBody, err)
		return
	}

	dto, err := h.svc.Update(r.Context(), id, usecase.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
	})
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	h.json(w, http.StatusOK, dto)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
