package main

import (
	"context"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/rebook/internal/application/book"
	appuser "github.com/xiebiao/rebook/internal/application/user"
	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
	"github.com/xiebiao/rebook/internal/domain/user"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/internal/infrastructure/event"
	"github.com/xiebiao/rebook/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/rebook/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/rebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/rebook/internal/infrastructure/storage"
	"github.com/xiebiao/rebook/internal/interface/http/handler"
	"github.com/xiebiao/rebook/internal/interface/http/middleware"
	"github.com/xiebiao/rebook/internal/interface/http/router"
	"github.com/xiebiao/rebook/pkg/jwt"
	"github.com/xiebiao/rebook/pkg/logger"
)

// Provider函数
// 手写的buildApp和Wire生成的代码共用这些函数，依赖链：
// config → 仓储/Redis/MQ → 领域服务 → 用例 → Handler → gin.Engine

// repositories 三个仓储来自同一个后端（MySQL或内存）
type repositories struct {
	users      user.Repository
	categories category.Repository
	books      book.Repository
}

// provideRepositories 按database.driver选择MySQL或内存仓储
func provideRepositories(cfg *config.Config) (repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Get().Warn().Msg("using in-memory repositories, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:      memory.NewUserRepository(store),
			categories: memory.NewCategoryRepository(store),
			books:      memory.NewBookRepository(store),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repositories{
		users:      mysql.NewUserRepository(db),
		categories: mysql.NewCategoryRepository(db),
		books:      mysql.NewBookRepository(db),
	}, cleanup, nil
}

func provideUserRepository(r repositories) user.Repository         { return r.users }
func provideCategoryRepository(r repositories) category.Repository { return r.categories }
func provideBookRepository(r repositories) book.Repository         { return r.books }

// cacheLayer Redis开启时提供会话存储和目录缓存，关闭时退回内存会话、不缓存
type cacheLayer struct {
	sessions appuser.SessionStore
	catalog  appbook.CatalogCache
}

func provideCacheLayer(ctx context.Context, cfg *config.Config) (cacheLayer, func(), error) {
	if !cfg.Redis.Enabled {
		return cacheLayer{sessions: memory.NewSessionStore()}, func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return cacheLayer{}, nil, err
	}
	return cacheLayer{
		sessions: redis.NewSessionStore(client),
		catalog:  redis.NewCatalogCache(client, cfg.Redis.CatalogTTL),
	}, func() { _ = client.Close() }, nil
}

func provideSessionStore(c cacheLayer) appuser.SessionStore { return c.sessions }

// provideTokenBlacklist 认证中间件只需要黑名单查询
func provideTokenBlacklist(s appuser.SessionStore) middleware.TokenBlacklist { return s }

func provideCatalogCache(c cacheLayer) appbook.CatalogCache { return c.catalog }

func providePublisher(cfg *config.Config) (event.Publisher, func(), error) {
	p, err := event.NewPublisher(cfg.MQ)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("close event publisher failed")
		}
	}, nil
}

func provideCoverStore(cfg *config.Config) (*storage.CoverStore, error) {
	return storage.NewCoverStore(cfg.Storage.CoverDir)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
}

func provideUserService(repo user.Repository, cfg *config.Config) user.Service {
	return user.NewService(repo, cfg.Security.BcryptCost)
}

func provideRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	fileHandler *handler.FileHandler,
	auth *middleware.AuthMiddleware,
) *gin.Engine {
	return router.New(cfg.Server, router.Handlers{
		User:     userHandler,
		Book:     bookHandler,
		Category: categoryHandler,
		File:     fileHandler,
	}, auth)
}

// App 组装好的服务
type App struct {
	cfg    *config.Config
	engine *gin.Engine
	seed   *appuser.SeedLibrarianUseCase
}

func newApp(cfg *config.Config, engine *gin.Engine, seed *appuser.SeedLibrarianUseCase) *App {
	return &App{cfg: cfg, engine: engine, seed: seed}
}

// buildApp 手动依赖注入，与wire.go中的initializeApp等价
func buildApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 基础设施层
	repos, closeRepos, err := provideRepositories(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRepos)

	caches, closeCaches, err := provideCacheLayer(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeCaches)

	publisher, closePublisher, err := providePublisher(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	covers, err := provideCoverStore(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	jwtManager := provideJWTManager(cfg)
	sessions := provideSessionStore(caches)
	catalogCache := provideCatalogCache(caches)

	// 领域层
	userRepo := provideUserRepository(repos)
	categoryRepo := provideCategoryRepository(repos)
	userService := provideUserService(userRepo, cfg)
	bookService := book.NewService(provideBookRepository(repos), categoryRepo)
	categoryService := category.NewService(categoryRepo)

	// 应用层 + 接口层
	userHandler := handler.NewUserHandler(
		appuser.NewSignupUseCase(userService),
		appuser.NewLoginUseCase(userService, jwtManager, sessions),
		appuser.NewLogoutUseCase(sessions),
		jwtManager,
	)
	bookHandler := handler.NewBookHandler(
		appbook.NewListBooksUseCase(bookService, catalogCache),
		appbook.NewGetBookUseCase(bookService),
		appbook.NewPublishBookUseCase(bookService, catalogCache, publisher),
		appbook.NewDeleteBookUseCase(bookService, catalogCache, publisher),
	)
	categoryHandler := handler.NewCategoryHandler(
		appbook.NewListCategoriesUseCase(categoryService, catalogCache),
		appbook.NewCreateCategoryUseCase(categoryService, catalogCache),
	)
	fileHandler := handler.NewFileHandler(covers)
	auth := middleware.NewAuthMiddleware(jwtManager, provideTokenBlacklist(sessions))

	engine := provideRouter(cfg, userHandler, bookHandler, categoryHandler, fileHandler, auth)
	seed := appuser.NewSeedLibrarianUseCase(userService, userRepo)
	return newApp(cfg, engine, seed), cleanup, nil
}
