package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewRouter は API 全体のルーティングを組み立てる。
// API はすべて /api 配下。
func NewRouter(projects *ProjectHandler, tasks *TaskHandler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users/{userId}/projects", projects.ListByUser)
	mux.HandleFunc("POST /api/projects", projects.Create)
	mux.HandleFunc("GET /api/projects/{id}", projects.Get)
	mux.HandleFunc("PUT /api/projects/{id}", projects.Update)
	mux.HandleFunc("DELETE /api/projects/{id}", projects.Delete)
	mux.HandleFunc("GET /api/projects/{projectId}/tasks", tasks.ListByProject)

	mux.HandleFunc("POST /api/tasks", tasks.Create)
	mux.HandleFunc("GET /api/tasks/overdue", tasks.Overdue)
	mux.HandleFunc("GET /api/tasks/due", tasks.DueWithin)
	mux.HandleFunc("GET /api/tasks/report/performance/{userId}", tasks.PerformanceReport)
	mux.HandleFunc("GET /api/tasks/{id}", tasks.Get)
	mux.HandleFunc("PATCH /api/tasks/{id}", tasks.Patch)
	mux.HandleFunc("DELETE /api/tasks/{id}", tasks.Delete)
	mux.HandleFunc("GET /api/tasks/{id}/history", tasks.History)
	mux.HandleFunc("POST /api/tasks/{id}/comments", tasks.AddComment)

	// ヘルスチェック
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return withRecover(logger, withAccessLog(logger, mux))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withAccessLog(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// withRecover は handler の panic を 500 に変換する。
func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	rs := responder{logger: logger}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("panic in handler", zap.Any("panic", v), zap.Stack("stack"))
				rs.json(w, http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR", Message: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
