package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	appuser "github.com/xiebiao/rebook/internal/application/user"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/pkg/logger"
	"github.com/xiebiao/rebook/pkg/metrics"
)

// main rebook服务端入口
// 配置文件：config/config.yaml，REBOOK_ENV=prod时叠加config.prod.yaml
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rebook api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.EnableCaller,
	})
	metrics.InitMetrics()

	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("database", cfg.Database.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Bool("mq", cfg.MQ.Enabled).
		Msg("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}
	defer cleanup()

	if err := seedLibrarian(ctx, app); err != nil {
		return fmt.Errorf("初始化图书管理员失败: %w", err)
	}

	return serve(ctx, app)
}

// seedLibrarian 确保配置中的图书管理员账号存在
func seedLibrarian(ctx context.Context, app *App) error {
	seed := app.cfg.Seed
	info, err := app.seed.Execute(ctx, appuser.SignupRequest{
		Email:    seed.LibrarianEmail,
		Password: seed.LibrarianPassword,
		Fullname: seed.LibrarianName,
		Username: seed.LibrarianUsername,
	})
	if err != nil {
		return err
	}
	if info != nil {
		logger.Get().Info().Uint("user_id", info.ID).Str("email", info.Email).Msg("librarian account ready")
	}
	return nil
}

// serve 启动HTTP服务，ctx取消后在shutdown_timeout内优雅关闭
func serve(ctx context.Context, app *App) error {
	cfg := app.cfg.Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Get().Info().Str("addr", srv.Addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Get().Info().Msg("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Get().Info().Msg("server stopped")
	return nil
}
