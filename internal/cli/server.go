package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduflex-video-service/internal/app"
	"eduflex-video-service/internal/config"
	"eduflex-video-service/internal/domain"
	"eduflex-video-service/internal/infra/memory"
	pgcatalog "eduflex-video-service/internal/infra/postgres"
	redisinfra "eduflex-video-service/internal/infra/redis"
	transport "eduflex-video-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the video tracking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 10*time.Minute)
	videoTTL := config.TTLDuration(cfg.Video.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var catalog app.VideoCatalog
	var loader memory.VideoLoader
	if pool != nil {
		pg := pgcatalog.NewVideoCatalog(pool)
		catalog = pg
		loader = pg
	} else {
		store := memory.NewVideoStore()
		seedDemoCatalog(ctx, store)
		catalog = store
		loader = store
	}

	var videos app.VideoRepository
	if redisClient != nil {
		videos = redisinfra.NewVideoCache(redisClient, loader, videoTTL)
	} else {
		videos = memory.NewVideoCache(loader, videoTTL)
	}

	var progress app.ProgressRepository
	var attempts app.AttemptRepository
	var sessions app.QuizSessionRepository
	if redisClient != nil {
		progress = redisinfra.NewProgressStore(redisClient, redisTTL)
		attempts = redisinfra.NewAttemptLog(redisClient, redisTTL)
		sessions = redisinfra.NewQuizSessionStore(redisClient, sessionTTL)
	} else {
		progress = memory.NewProgressStore()
		attempts = memory.NewAttemptStore()
		sessions = memory.NewQuizSessionStore()
	}

	catalogService := app.NewCatalogService(catalog)
	trackingService := app.NewTrackingService(videos, progress)
	quizService := app.NewQuizService(videos, progress, attempts, sessions)

	wsHandler := transport.NewWSHandler(videos, trackingService, quizService)
	restHandler := transport.NewRESTHandler(catalogService, trackingService, quizService)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	restHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting video tracking service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedDemoCatalog loads a sample lesson when no Postgres catalog is
// configured; swap in real uploads via POST /videos.
func seedDemoCatalog(ctx context.Context, store *memory.VideoStore) {
	if _, err := store.AddVideo(ctx, demoVideo()); err != nil {
		log.Printf("seed demo catalog: %v", err)
	}
}

func demoVideo() domain.VideoDraft {
	return domain.VideoDraft{
		TeacherID:   "teacher-1",
		Title:       "Introduction to Photosynthesis",
		Description: "Learn about the process of photosynthesis in plants and how they convert sunlight into energy.",
		MediaURL:    "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		Duration:    596,
		Questions: []domain.QuestionDraft{
			{
				Text:          "What is the primary source of energy for photosynthesis?",
				CorrectAnswer: "Sunlight",
				Options:       []string{"Water", "Sunlight", "Carbon Dioxide", "Oxygen"},
				Timestamp:     120,
				Explanation:   "Sunlight is the primary energy source that plants use in photosynthesis to convert carbon dioxide and water into glucose.",
			},
			{
				Text:          "Which gas do plants absorb during photosynthesis?",
				CorrectAnswer: "Carbon Dioxide",
				Options:       []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"},
				Timestamp:     240,
				Explanation:   "Plants absorb carbon dioxide from the atmosphere and use it along with water to produce glucose and oxygen.",
			},
			{
				Text:          "What is the green pigment in plants called?",
				CorrectAnswer: "Chlorophyll",
				Options:       []string{"Hemoglobin", "Chlorophyll", "Melanin", "Carotene"},
				Timestamp:     360,
				Explanation:   "Chlorophyll is the green pigment found in chloroplasts that captures light energy for photosynthesis.",
			},
		},
	}
}
