package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-roads/api"
	gameapi "github.com/beka-birhanu/vinom-roads/api/game"
	api_i "github.com/beka-birhanu/vinom-roads/api/i"
	"github.com/beka-birhanu/vinom-roads/api/identity"
	"github.com/beka-birhanu/vinom-roads/config"
	"github.com/beka-birhanu/vinom-roads/game"
	"github.com/beka-birhanu/vinom-roads/game/lootgen"
	"github.com/beka-birhanu/vinom-roads/infrastruture/logger"
	"github.com/beka-birhanu/vinom-roads/infrastruture/repo"
	"github.com/beka-birhanu/vinom-roads/infrastruture/snapshot"
	"github.com/beka-birhanu/vinom-roads/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-roads/infrastruture/token"
	"github.com/beka-birhanu/vinom-roads/service"
	"github.com/beka-birhanu/vinom-roads/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	retiredCollection = "retired_players"
	shutdownTimeout   = 10 * time.Second
)

// Global variables for dependencies
var (
	envs           config.Config
	gameConfig     *config.GameConfig
	retiredRepo    *repo.PooledRepo
	snapshotStore  game.SnapshotStore
	world          *game.World
	ticker         *service.Ticker
	recordsService *service.RecordsService
	gameController api_i.Controller
	router         *api.Router
	appLogger      i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", prefix, err)
		os.Exit(1)
	}
	return l
}

func initConfig() {
	var err error
	envs, err = config.Load()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading environment: %v", err))
		os.Exit(1)
	}

	gameConfig, err = config.LoadGameConfig(envs.GameConfig)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading game config %s: %v", envs.GameConfig, err))
		os.Exit(1)
	}
	gin.SetMode(envs.GinMode)
	appLogger.Info(fmt.Sprintf("Loaded %d maps from %s", len(gameConfig.Maps), envs.GameConfig))
}

func dialRetiredRepo(ctx context.Context) func() (i.RetiredRepo, error) {
	switch envs.RecordsBackend {
	case config.BackendMongo:
		return func() (i.RetiredRepo, error) {
			client, err := repo.DialMongo(ctx, envs.MongoURI())
			if err != nil {
				return nil, err
			}
			return repo.NewMongoRetiredRepo(ctx, client, envs.DBName, retiredCollection)
		}
	case config.BackendRedis:
		return func() (i.RetiredRepo, error) {
			client := redis.NewClient(&redis.Options{Addr: envs.RedisAddr, Password: envs.RedisPassword})
			if err := client.Ping(ctx).Err(); err != nil {
				_ = client.Close()
				return nil, err
			}
			return sortedstorage.NewRedisLeaderboard(client, envs.RedisKey, 0), nil
		}
	default:
		return func() (i.RetiredRepo, error) {
			return repo.OpenSQLiteRetiredRepo(envs.SQLitePath)
		}
	}
}

func initRetiredRepo(ctx context.Context) {
	var err error
	retiredRepo, err = repo.NewPooledRepo(envs.DBPoolSize, dialRetiredRepo(ctx))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Connecting to %s records backend: %v", envs.RecordsBackend, err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Records backend %s initialized with %d connections", envs.RecordsBackend, envs.DBPoolSize))
}

func initSnapshotStore() {
	if envs.StateFile == "" {
		appLogger.Warning("STATE_FILE is not set, game state will not survive restarts")
		return
	}
	snapshotStore = snapshot.NewFileStore(envs.StateFile)
	appLogger.Info(fmt.Sprintf("Game state is stored in %s", envs.StateFile))
}

// newLootGenerator builds a fresh generator for every map, each with its own random source.
func newLootGenerator(string) (game.LootGenerator, error) {
	lc := gameConfig.Loot
	if lc == nil {
		return nil, nil
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return lootgen.New(lc.Period, lc.Probability, lootgen.WithRandomSource(rng.Float64))
}

func initWorld() {
	retirement := gameConfig.RetirementTime
	if envs.RetirementTime > 0 {
		retirement = envs.RetirementTime
	}

	var err error
	world, err = game.New(&game.Config{
		Maps:               gameConfig.Maps,
		DefaultBagCapacity: &gameConfig.DefaultBagCapacity,
		RetirementTime:     retirement,
		SnapshotPeriod:     envs.SaveStatePeriod,
		RandomSpawn:        envs.RandomSpawn,
		NewLootGenerator:   newLootGenerator,
		RetiredWriter:      retiredRepo,
		SnapshotStore:      snapshotStore,
		Tokenizer:          token.NewHexTokenizer(),
		Logger:             newLogger("WORLD", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating world: %v", err))
		os.Exit(1)
	}
	appLogger.Info("World initialized")
}

func initTicker() {
	ticker = service.NewTicker(&service.TickerConfig{
		World:  world,
		Period: envs.TickPeriod,
		Logger: newLogger("TICKER", config.ColorBlue),
	})
	if !ticker.Autonomous() {
		appLogger.Info("TICK_PERIOD is not set, the clock advances on POST /game/tick only")
	}
}

func initRecordsService() {
	recordsService = service.NewRecordsService(retiredRepo, newLogger("RECORDS", config.ColorPurple))
	appLogger.Info("Records service initialized")
}

func initGameController() {
	gameController = gameapi.NewGameController(&gameapi.Config{
		World:   world,
		Clock:   ticker,
		Records: recordsService,
		Stream:  gameapi.NewStream(world, ticker, newLogger("STREAM", config.ColorMagenta)),
	})
	appLogger.Info("Game controller initialized")
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{gameController},
		AuthorizationMiddleware: identity.Authoriz(world),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	appLogger = newLogger("APP", config.ColorGreen)

	initConfig()
	initRetiredRepo(ctx)
	initSnapshotStore()
	initWorld()
	initTicker()
	initRecordsService()
	initGameController()
	initRouter()

	go ticker.Run(ctx)

	// Run HTTP server
	go func() {
		if err := router.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Stopping server: %v", err))
	}
	if snapshotStore != nil {
		if err := world.Save(); err != nil {
			appLogger.Error(fmt.Sprintf("Saving game state: %v", err))
		}
	}
	if err := retiredRepo.Close(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Closing records backend: %v", err))
	}
}
