package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ivaldepablo/play-sib-v2/internal/app"
	"github.com/ivaldepablo/play-sib-v2/internal/config"
	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/game"
	"github.com/ivaldepablo/play-sib-v2/internal/infra/memory"
	pgstore "github.com/ivaldepablo/play-sib-v2/internal/infra/postgres"
	redisstore "github.com/ivaldepablo/play-sib-v2/internal/infra/redis"
	transport "github.com/ivaldepablo/play-sib-v2/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Stores: Postgres when configured, in-memory with sample data otherwise.
	var (
		users      app.UserStore
		scores     app.ScoreStore
		moderation app.ModerationStore
	)
	if pool != nil {
		users = pgstore.NewUserStore(pool)
		scores = pgstore.NewScoreStore(pool)
		moderation = pgstore.NewModerationStore(pool)
	} else {
		users = memory.NewUserStore()
		scores = memory.NewScoreStore()
		moderation = memory.NewModerationStore()
	}

	categories := cfg.Game.Categories
	if len(categories) == 0 {
		categories = defaultCategories()
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions game.QuestionSource
	switch {
	case pool != nil && redisClient != nil:
		questions = redisstore.NewQuestionCache(redisClient, pgstore.NewQuestionLoader(pool), questionTTL)
	case pool != nil:
		questions = memory.NewQuestionRepository(pgstore.NewQuestionLoader(pool), questionTTL)
	default:
		questions = memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleQuestions(categories)), questionTTL)
	}

	rules := game.DefaultRules()
	if cfg.Game.SessionSeconds > 0 {
		rules.SessionSeconds = cfg.Game.SessionSeconds
	}
	if cfg.Game.QuestionSeconds > 0 {
		rules.QuestionSeconds = cfg.Game.QuestionSeconds
	}
	if cfg.Game.RevealTicks > 0 {
		rules.RevealTicks = cfg.Game.RevealTicks
	}

	var rooms app.RoomStore
	if redisClient != nil {
		rooms = redisstore.NewRoomStore(redisClient, redisTTL)
	} else {
		rooms = memory.NewRoomStore()
	}

	gameService := app.NewGameService(users, scores, questions, rules, categories)
	boardService := app.NewLeaderboardService(users, scores)
	userService := app.NewUserService(users, scores)
	roomService := app.NewRoomService(users, rooms)
	questionService := app.NewQuestionService(questions, moderation)

	var tops transport.TopBoards = boardService
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 30*time.Second)
		tops = redisstore.NewLeaderboardCache(redisClient, boardService, cacheTTL)
	}

	wsHandler := transport.NewWSHandler(gameService)
	apiHandler := transport.NewAPIHandler(userService, boardService, tops, roomService, questionService)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting play-sib server on :%s", finalPort)
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

// defaultCategories are the five wheel segments of the merchant history game.
func defaultCategories() []string {
	return []string{
		"Жизнь социальных классов",
		"Домашнее хозяйство",
		"Знаменитые купеческие династии",
		"Томск - крупный сибирский торговый центр",
		"Развитие предпринимательства",
	}
}

// sampleQuestions provides a minimal pool per category; swap the loader with
// the Postgres-backed one in production.
func sampleQuestions(categories []string) map[string][]domain.Question {
	pools := make(map[string][]domain.Question, len(categories))
	for i, category := range categories {
		pools[category] = []domain.Question{
			{
				ID:       "sample-" + category,
				Category: category,
				Text:     "Образец вопроса по теме «" + category + "»",
				Options:  []string{"Вариант 1", "Вариант 2", "Вариант 3", "Вариант 4"},
				Answer:   "Вариант " + string(rune('1'+i%4)),
				IsActive: true,
			},
		}
	}
	return pools
}
