package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/interface/httpjson"
	usecase "taskflow/internal/usecase/task"
)

// TaskHandler は /api/tasks 配下を処理する HTTP ハンドラ。
//
// ステータス・優先度は文字列のまま Usecase 層に渡し、Parse はそちらで行う。
type TaskHandler struct {
	svc *usecase.Service
	responder
}

// NewTaskHandler は TaskHandler を生成する。
func NewTaskHandler(svc *usecase.Service, logger *zap.Logger) *TaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskHandler{svc: svc, responder: responder{logger: logger}}
}

// CreateTaskRequest は POST /api/tasks のリクエストボディ。
type CreateTaskRequest struct {
	ProjectID   string  `json:"projectId"`
	OwnerUserID string  `json:"ownerUserId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// PatchTaskRequest は PATCH /api/tasks/{id} のリクエストボディ。
type PatchTaskRequest struct {
	ExecutorUserID string                    `json:"executorUserId"`
	Title          httpjson.Nullable[string] `json:"title"`
	Description    httpjson.Nullable[string] `json:"description"`
	Status         *string                   `json:"status"`
	Priority       *string                   `json:"priority"`
	DueDate        httpjson.Nullable[string] `json:"dueDate"`
	CompletedAt    httpjson.Nullable[string] `json:"completedAt"`
	Version        *int                      `json:"version"`
}

func (req PatchTaskRequest) empty() bool {
	return !req.Title.Set && !req.Description.Set && req.Status == nil && req.Priority == nil &&
		!req.DueDate.Set && !req.CompletedAt.Set
}

// AddCommentRequest は POST /api/tasks/{id}/comments のリクエストボディ。
type AddCommentRequest struct {
	AuthorUserID string `json:"authorUserId"`
	Content      string `json:"content"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}

	dto, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	h.json(w, http.StatusCreated, dto)
}

func (req CreateTaskRequest) toInput() (usecase.CreateTaskInput, error) {
	projectID, err := parseUUID("projectId", req.ProjectID)
	if err != nil {
		return usecase.CreateTaskInput{}, err
	}
	ownerID, err := parseUUID("ownerUserId", req.OwnerUserID)
	if err != nil {
		return usecase.CreateTaskInput{}, err
	}
	in := usecase.CreateTaskInput{
		ProjectID:   projectID,
		OwnerUserID: ownerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			return usecase.CreateTaskInput{}, err
		}
		in.DueDate = &due
	}
	return in, nil
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	var req PatchTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	if req.empty() {
		h.fail(w, r, locationBody, base.Invalid("body", "EMPTY_PATCH", "at least one field must be provided", nil))
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}

	dto, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	h.json(w, http.StatusOK, dto)
}

func (req PatchTaskRequest) toInput() (usecase.UpdateTaskInput, error) {
	executor, err := parseUUID("executorUserId", req.ExecutorUserID)
	if err != nil {
		return usecase.UpdateTaskInput{}, err
	}
	dueDate, err := datePatch("dueDate", req.DueDate)
	if err != nil {
		return usecase.UpdateTaskInput{}, err
	}
	completedAt, err := datePatch("completedAt", req.CompletedAt)
	if err != nil {
		return usecase.UpdateTaskInput{}, err
	}
	return usecase.UpdateTaskInput{
		ExecutorUserID: executor,
		Title:          textPatch(req.Title),
		Description:    textPatch(req.Description),
		StatusStr:      req.Status,
		PriorityStr:    req.Priority,
		DueDate:        dueDate,
		CompletedAt:    completedAt,
		Version:        req.Version,
	}, nil
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// ListByProject は GET /api/projects/{projectId}/tasks を処理する。
// クエリパラメータ（status, priority, dueDateFrom, dueDateTo, limit）から TaskQuery を構築する。
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathUUID(r, "projectId")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}

	qs := r.URL.Query()
	limit, err := ParseLimit(qs.Get("limit"))
	if err != nil {
		h.fail(w, r, locationQuery, err)
		return
	}
	query, err := domain.NewTaskQuery(
		domain.WithStatusFilter(qs.Get("status")),
		domain.WithPriorityFilter(qs.Get("priority")),
		domain.WithDueDateRangeFilter(qs.Get("dueDateFrom"), qs.Get("dueDateTo")),
		domain.WithLimit(limit),
	)
	if err != nil {
		h.fail(w, r, locationQuery, err)
		return
	}

	list, err := h.svc.ListByProject(r.Context(), projectID, query)
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	h.json(w, http.StatusOK, list)
}

func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	history, err := h.svc.History(r.Context(), id)
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	h.json(w, http.StatusOK, history)
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	var req AddCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	author, err := parseUUID("authorUserId", req.AuthorUserID)
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}

	dto, err := h.svc.AddComment(r.Context(), usecase.AddCommentInput{
		TaskID:       id,
		AuthorUserID: author,
		Content:      req.Content,
	})
	if err != nil {
		h.fail(w, r, locationBody, err)
		return
	}
	h.json(w, http.StatusCreated, dto)
}

func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListOverdue(r.Context())
	if err != nil {
		h.fail(w, r, locationQuery, err)
		return
	}
	h.json(w, http.StatusOK, list)
}

// DueWithin は GET /api/tasks/due?within=72h を処理する。within 未指定は既定値。
func (h *TaskHandler) DueWithin(w http.ResponseWriter, r *http.Request) {
	var window time.Duration
	if raw := r.URL.Query().Get("within"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			h.fail(w, r, locationQuery, base.Invalid("within", "INVALID_FORMAT", "within must be a positive duration such as 72h", &raw))
			return
		}
		window = d
	}

	list, err := h.svc.ListDueWithin(r.Context(), window)
	if err != nil {
		h.fail(w, r, locationQuery, err)
		return
	}
	h.json(w, http.StatusOK, list)
}

func (h *TaskHandler) PerformanceReport(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	report, err := h.svc.GetPerformanceReport(r.Context(), userID)
	if err != nil {
		h.fail(w, r, locationPath, err)
		return
	}
	h.json(w, http.StatusOK, report)
}
