package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskflow/internal/domain/user"
	"taskflow/internal/infrastructure/memory"
	httpiface "taskflow/internal/interface/http"
	projectuc "taskflow/internal/usecase/project"
	"taskflow/internal/usecase/repository"
	taskuc "taskflow/internal/usecase/task"
)

// fixedNow はテスト用の固定時刻を返すヘルパー関数。
func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

type server struct {
	handler http.Handler
	store   *memory.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore(memory.WithClock(fixedNow))
	projects := projectuc.NewService(store, zap.NewNop())
	projects.Now = fixedNow
	tasks := taskuc.NewService(store, zap.NewNop())
	tasks.Now = fixedNow

	h := httpiface.NewRouter(
		httpiface.NewProjectHandler(projects, zap.NewNop()),
		httpiface.NewTaskHandler(tasks, zap.NewNop()),
		zap.NewNop(),
	)
	return &server{handler: h, store: store}
}

// do はリクエストを送り、ステータスコードとデコード済みのボディを返す。
func (s *server) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	if out != nil && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out), "decode body for %s %s", method, path)
	}
	return res.StatusCode
}

func (s *server) addUser(t *testing.T, name, email string, role user.Role) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u, err := user.NewUser(uuid.New(), name, email, role)
	require.NoError(t, err)
	require.NoError(t, repository.Write(ctx, s.store, func(uow repository.UnitOfWork) error {
		return uow.Users().Create(ctx, u)
	}))
	return u.ID
}

type projectBody struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaskCount int       `json:"taskCount"`
	Version   int       `json:"version"`
}

type historyBody struct {
	FieldName string  `json:"fieldName"`
	OldValue  *string `json:"oldValue"`
	NewValue  *string `json:"newValue"`
}

type taskBody struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	CompletedAt *time.Time    `json:"completedAt"`
	Version     int           `json:"version"`
	History     []historyBody `json:"history"`
	Comments    []struct {
		Content string `json:"content"`
	} `json:"comments"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details *struct {
		Issues []httpiface.ValidationIssue `json:"issues"`
	} `json:"details"`
}

func (s *server) createProject(t *testing.T, owner uuid.UUID) projectBody {
	t.Helper()
	var p projectBody
	code := s.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name": "TeamFlow 開発", "description": "TeamFlow の開発プロジェクト", "ownerUserId": owner.String(),
	}, &p)
	require.Equal(t, http.StatusCreated, code)
	return p
}

func (s *server) createTask(t *testing.T, projectID, owner uuid.UUID) taskBody {
	t.Helper()
	var tk taskBody
	code := s.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"projectId": projectID.String(), "ownerUserId": owner.String(), "title": "画面設計", "priority": "high",
	}, &tk)
	require.Equal(t, http.StatusCreated, code)
	return tk
}
