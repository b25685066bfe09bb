//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go；生成的initializeApp与providers.go中的buildApp等价

package main

import (
	"context"

	"github.com/google/wire"

	appbook "github.com/xiebiao/rebook/internal/application/book"
	appuser "github.com/xiebiao/rebook/internal/application/user"
	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/internal/interface/http/handler"
	"github.com/xiebiao/rebook/internal/interface/http/middleware"
)

// infrastructureSet 仓储、缓存、事件、文件、JWT
var infrastructureSet = wire.NewSet(
	provideRepositories,
	provideUserRepository,
	provideCategoryRepository,
	provideBookRepository,
	provideCacheLayer,
	provideSessionStore,
	provideTokenBlacklist,
	provideCatalogCache,
	providePublisher,
	provideCoverStore,
	provideJWTManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
	category.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewSignupUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewSeedLibrarianUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListCategoriesUseCase,
	appbook.NewCreateCategoryUseCase,
)

// interfaceSet Handler、中间件、路由
var interfaceSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCategoryHandler,
	handler.NewFileHandler,
	middleware.NewAuthMiddleware,
	provideRouter,
)

// initializeApp Wire注入器
func initializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
