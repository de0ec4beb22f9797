package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/config"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/security"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/store/sqlite"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/ws"
)

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(cfg *config.Config, db *sql.DB, hub *ws.Hub, tokenSvc *security.TokenService, passwordHasher *security.PasswordHasher) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	userRepo := sqlite.NewUserRepo(db)
	convRepo := sqlite.NewConversationRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)
	reactionRepo := sqlite.NewReactionRepo(db)
	receiptRepo := sqlite.NewReceiptRepo(db)
	presenceRepo := sqlite.NewPresenceRepo(db)
	notifRepo := sqlite.NewNotificationRepo(db)
	prefRepo := sqlite.NewPreferenceRepo(db)
	interestRepo := sqlite.NewInterestRepo(db)

	// Services
	notifSvc := service.NewNotificationService(notifRepo, prefRepo, interestRepo, userRepo, cfg.BroadcastBatchLen)
	authSvc := service.NewAuthService(userRepo, prefRepo, tokenSvc, passwordHasher)
	convSvc := service.NewConversationService(convRepo, msgRepo, userRepo)
	msgSvc := service.NewMessageService(convRepo, msgRepo, reactionRepo, receiptRepo, notifSvc, cfg.MaxMessageLength)
	presenceSvc := service.NewPresenceService(presenceRepo, userRepo)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName,
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// API routes. The request deadline applies here only; /ws is a long-lived
	// connection and must not inherit it.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Auth routes (no auth required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc))
			r.Post("/login", handleLogin(authSvc))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, userRepo))

			r.Route("/conversations", func(r chi.Router) {
				r.Post("/create", handleCreateConversation(convSvc))
				r.Get("/", handleListConversations(convSvc))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/send", handleSendMessage(msgSvc))
				r.Get("/unread/count", handleUnreadCount(msgSvc))
				r.Post("/reactions/add", handleAddReaction(msgSvc))
				r.Post("/reactions/remove", handleRemoveReaction(msgSvc))
				r.Get("/{conversationID}", handleListMessages(msgSvc))
				r.Post("/{conversationID}/read", handleMarkMessagesRead(msgSvc))
				r.Post("/{conversationID}/receipt", handleUpdateReceipt(msgSvc))
				r.Get("/{conversationID}/receipts", handleListReceipts(msgSvc))
			})

			r.Route("/presence", func(r chi.Router) {
				r.Get("/online/list", handleListOnline(presenceSvc))
				r.Get("/{userID}", handleGetPresence(presenceSvc))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handleListNotifications(notifSvc))
				r.Get("/unread/count", handleNotificationUnreadCount(notifSvc))
				r.Post("/{notificationID}/read", handleMarkNotificationRead(notifSvc))
				r.Post("/{notificationID}/dismiss", handleDismissNotification(notifSvc))
				r.Get("/preferences", handleListPreferences(notifSvc))
				r.Post("/preferences", handleSetPreference(notifSvc))
				r.Post("/interests", handleAddInterest(notifSvc))
				r.Delete("/interests", handleRemoveInterest(notifSvc))
			})

			r.Post("/admin/announcements", handleCreateAnnouncement(notifSvc))
		})
	})

	// WebSocket endpoint
	r.Get("/ws", ws.MakeHandler(hub, tokenSvc, userRepo, convSvc, msgSvc, presenceSvc))

	return r
}
