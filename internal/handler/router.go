package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Metrics           *metrics.Collector
	MetricsGatherer   prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメイン
	TaskService        TaskServiceInterface
	TimerService       TimerServiceInterface
	TimerDeleter       TimerDeleter
	ReminderService    ReminderServiceInterface
	NoteService        NoteServiceInterface
	FolderService      FolderServiceInterface
	MaintenanceService MaintenanceServiceInterface

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → RequestID → Recovery → Logging → (保護ルートのみ) Auth
//
// /health と /metrics は認証もアクセスログも通さない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 運用エンドポイント（ミドルウェアチェーンの外）
	r.Get("/health", NewHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	taskHandler := NewTaskHandler(deps.TaskService)
	timerHandler := NewTimerHandler(deps.TimerService, deps.TimerDeleter)
	reminderHandler := NewReminderHandler(deps.ReminderService)
	noteHandler := NewNoteHandler(deps.NoteService)
	folderHandler := NewFolderHandler(deps.FolderService)
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
		r.Use(middleware.NewRequestIDMiddleware())
		r.Use(middleware.NewRecoveryMiddleware())
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
		r.Use(middleware.NewSecurityHeadersMiddleware())

		// --- 認証不要のルート ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

			r.Get("/auth/me", authHandler.Me)

			// タスク管理
			r.Route("/api/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Delete("/", taskHandler.DeleteAllTasks)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", taskHandler.UpdateTask)
					r.Delete("/", taskHandler.DeleteTask)
				})
			})

			// タイマー管理
			r.Route("/api/timers", func(r chi.Router) {
				r.Get("/", timerHandler.ListTimers)
				r.Post("/", timerHandler.CreateTimer)
				r.Delete("/", timerHandler.DeleteAllTimers)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", timerHandler.UpdateTimer)
					r.Delete("/", timerHandler.DeleteTimer)
				})
			})

			// リマインダー管理
			r.Route("/api/reminders", func(r chi.Router) {
				r.Get("/", reminderHandler.ListReminders)
				r.Post("/", reminderHandler.CreateReminder)
				r.Delete("/", reminderHandler.DeleteAllReminders)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", reminderHandler.UpdateReminder)
					r.Delete("/", reminderHandler.DeleteReminder)
				})
			})

			// フォルダ管理
			r.Route("/api/folders", func(r chi.Router) {
				r.Get("/", folderHandler.ListFolders)
				r.Post("/", folderHandler.CreateFolder)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", folderHandler.RenameFolder)
					r.Delete("/", folderHandler.DeleteFolder)
				})
			})

			// ノート管理
			r.Route("/api/notes", func(r chi.Router) {
				r.Get("/", noteHandler.ListNotes)
				r.Post("/", noteHandler.CreateNote)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", noteHandler.GetNote)
					r.Put("/", noteHandler.UpdateNote)
					r.Delete("/", noteHandler.DeleteNote)
					r.Put("/move", noteHandler.MoveNote)
				})
			})

			// データ一括削除
			r.Delete("/api/clear-all", maintenanceHandler.ClearAll)
		})
	})

	return r
}
