package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/grouppic/docs"
	"github.com/fkhayef/grouppic/internal/access"
	"github.com/fkhayef/grouppic/internal/comment"
	"github.com/fkhayef/grouppic/internal/config"
	"github.com/fkhayef/grouppic/internal/content"
	"github.com/fkhayef/grouppic/internal/database"
	"github.com/fkhayef/grouppic/internal/group"
	"github.com/fkhayef/grouppic/internal/member"
	"github.com/fkhayef/grouppic/internal/user"
	"github.com/fkhayef/grouppic/pkg/auth"
	"github.com/fkhayef/grouppic/pkg/logging"
	"github.com/fkhayef/grouppic/pkg/metrics"
	mw "github.com/fkhayef/grouppic/pkg/middleware"
)

// @title           GroupPic API
// @version         1.0
// @description     Group-based photo sharing backend with invitation-based membership.
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Access gateway: the one place membership-derived permissions are decided
	accessRepo := access.NewRepository(db)
	accessService := access.NewService(accessRepo)

	// Group feature (invitation codes live alongside groups)
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, accessService, userService)
	inviteService := group.NewInviteService(groupRepo, accessService)

	// Membership feature (resolves invitation codes through the group package)
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, inviteService, userService)
	memberHandler := member.NewHandler(memberService)

	// Content feature
	contentRepo := content.NewRepository(db)
	contentService := content.NewService(contentRepo, accessService)
	contentHandler := content.NewHandler(contentService)

	// Comment feature
	commentRepo := comment.NewRepository(db)
	commentService := comment.NewService(commentRepo, accessService)
	commentHandler := comment.NewHandler(commentService)

	groupHandler := group.NewHandler(groupService, inviteService)

	requireAuth := mw.AuthMiddleware(jwtManager)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.TestUserMiddleware)

		r.Mount("/users", userHandler.Routes(requireAuth))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Mount("/groups", groupHandler.Routes(memberHandler, contentHandler))
			r.Mount("/contents", contentHandler.Routes(commentHandler))
			r.Mount("/comments", commentHandler.ItemRoutes())
		})
	})

	// Start server
	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
