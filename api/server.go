// Package api はhibiのAPIサーバー実装を提供します。
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/stsysd/hibi/config"
	"github.com/stsysd/hibi/logger"
	"github.com/stsysd/hibi/model"
	"github.com/stsysd/hibi/store"
)

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	handler http.Handler
	store   store.Store
	config  *config.Config
	now     func() time.Time
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error: message,
		Code:  statusCode,
	})
}

// writeJSON はJSON形式でレスポンスを返却します。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

// writeStoreError はストアのエラーを種類に応じたステータスコードで返却します。
// 想定外のエラーはログに記録し、詳細をクライアントに返しません。
func writeStoreError(w http.ResponseWriter, err error, action string) {
	var validationErr *model.ValidationError
	switch {
	case isNotFound(err):
		writeJSONError(w, "Habit not found", http.StatusNotFound)
	case errors.As(err, &validationErr):
		writeJSONError(w, validationErr.Message, http.StatusBadRequest)
	default:
		logStoreError(err, action)
		writeJSONError(w, "Failed to "+action, http.StatusInternalServerError)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrHabitNotFound)
}

// logStoreError は500になるエラーを記録します。
func logStoreError(err error, action string) {
	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		logger.Error("Store unavailable", "action", action, "op", transportErr.Op, "error", transportErr.Err)
		return
	}
	logger.Error("Unexpected error", "action", action, "error", err)
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(store store.Store, config *config.Config) *Server {
	s := &Server{
		router: http.NewServeMux(),
		store:  store,
		config: config,
		now:    time.Now,
	}
	s.routes()
	s.handler = s.loggingMiddleware(s.corsMiddleware(s.router))
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックエンドポイントは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Habit endpoints
	securedHandler.HandleFunc("GET /api/v0/habits", s.handleListHabits)
	securedHandler.HandleFunc("POST /api/v0/habits", s.handleCreateHabit)
	securedHandler.HandleFunc("GET /api/v0/habits/{habit_id}", s.handleGetHabit)
	securedHandler.HandleFunc("PUT /api/v0/habits/{habit_id}", s.handleUpdateHabit)
	securedHandler.HandleFunc("DELETE /api/v0/habits/{habit_id}", s.handleDeleteHabit)
	securedHandler.HandleFunc("POST /api/v0/habits/{habit_id}/toggle", s.handleToggleHabit)
	securedHandler.HandleFunc("GET /api/v0/habits/{habit_id}/streak", s.handleGetStreak)

	// Calendar endpoints
	securedHandler.HandleFunc("GET /api/v0/calendar/{year}", s.handleGetCalendar)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))

	// Graph endpoints - support both with and without .svg extension
	s.router.HandleFunc("GET /h/{habit_id}/graph.svg", s.handleGetGraph)
	s.router.HandleFunc("GET /h/{habit_id}/graph", s.handleGetGraph)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// location は「今日」の判定に使うタイムゾーンを返します。
func (s *Server) location() *time.Location {
	return s.config.Location()
}

// today は設定タイムゾーンでの今日を返します。
func (s *Server) today() model.Day {
	return model.Today(s.now(), s.location())
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run はHTTPサーバーを起動します。
func (s *Server) Run(addr string) error {
	logger.Info("Server starting", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
