// Ecommerce 主程序
// 功能：提供用户、商品目录与订单管理的 HTTP 接口
// 架构：基于 DDD，按 user / catalog / order 三个上下文组织，事件经 Kafka 发布
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/media"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/ecommerce/internal/order/interfaces/http"
	userapp "github.com/wyfcoding/ecommerce/internal/user/application"
	"github.com/wyfcoding/ecommerce/internal/user/infrastructure/crypto"
	usermysql "github.com/wyfcoding/ecommerce/internal/user/infrastructure/persistence/mysql"
	userhttp "github.com/wyfcoding/ecommerce/internal/user/interfaces/http"
	"github.com/wyfcoding/ecommerce/pkg/config"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/grpcclient"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/mq"
	"github.com/wyfcoding/ecommerce/pkg/ratelimit"
	"github.com/wyfcoding/ecommerce/pkg/trace"
	"github.com/wyfcoding/ecommerce/pkg/validation"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// handlers 聚合各上下文的 HTTP 处理器
type handlers struct {
	users   *userhttp.UserHandler
	catalog *cataloghttp.CatalogHandler
	orders  *orderhttp.OrderHandler
}

func main() {
	configPath := flag.String("config", "configs/ecommerce/config.toml", "path to the TOML config file")
	healthcheck := flag.Bool("healthcheck", false, "probe the running instance's gRPC health service and exit")
	flag.Parse()

	// 0. 读取 .env（可选），其中的 APP_ 变量会覆盖配置文件
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *healthcheck {
		os.Exit(probeHealth(cfg))
	}

	if err := run(cfg); err != nil {
		logger.Error(context.Background(), "Ecommerce service exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "Ecommerce service stopped")
}

// run 初始化依赖并运行服务器直到收到退出信号；所有 defer 的清理在返回前执行
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting ecommerce service",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化追踪
	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracer(ctx, trace.Config{
			ServiceName:  cfg.ServiceName,
			Version:      cfg.Version,
			Environment:  cfg.Environment,
			Endpoint:     cfg.Tracing.CollectorEndpoint,
			SamplingRate: cfg.Tracing.SamplingRate,
		})
		if err != nil {
			logger.Error(ctx, "Failed to initialize tracer", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error(context.Background(), "Failed to shutdown tracer", "error", err)
				}
			}()
			logger.Info(ctx, "Tracer initialized", "endpoint", cfg.Tracing.CollectorEndpoint)
		}
	}

	// 4. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Tracing:            cfg.Tracing.Enabled,
	})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error(context.Background(), "Failed to close database", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := migrate(database); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// 5. 初始化限流器
	var rateLimiter ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	if cfg.Redis.Enabled {
		rdb, err := ratelimit.NewRedisClient(ctx, ratelimit.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.MaxPoolSize,
			DialTimeout:  time.Duration(cfg.Redis.ConnTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		defer rdb.Close()
		rateLimiter = ratelimit.NewRedisRateLimiter(rdb)
	}

	// 6. 初始化事件发布
	var publisher mq.Publisher = mq.LogPublisher{}
	if cfg.Kafka.Enabled {
		publisher = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			TopicPrefix:  cfg.Kafka.TopicPrefix,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error(context.Background(), "Failed to close event publisher", "error", err)
		}
	}()

	// 7. 初始化图片存储，未配置时上传接口返回 503
	var images catalogdomain.ImageStore
	if cfg.Media.CloudinaryURL != "" {
		store, err := media.NewCloudinaryStore(cfg.Media.CloudinaryURL, cfg.Media.Folder)
		if err != nil {
			return fmt.Errorf("initialize media store: %w", err)
		}
		images = store
	}

	// 8. 初始化指标
	var collector metrics.MetricsCollector = metrics.NopCollector{}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsInstance := metrics.New(cfg.ServiceName)
		if err := metricsInstance.Register(nil); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		collector = metrics.NewDefaultMetricsCollector(metricsInstance)
		metricsServer = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, nil)
	}

	// 9. 初始化仓储与应用服务
	userService := userapp.NewUserService(
		usermysql.NewUserRepository(database),
		crypto.NewBcryptHasher(0),
		publisher,
	)
	categoryRepo := catalogmysql.NewCategoryRepository(database)
	productRepo := catalogmysql.NewProductRepository(database)
	catalogCommands := catalogapp.NewCatalogCommandService(categoryRepo, productRepo, publisher, images)
	catalogQueries := catalogapp.NewCatalogQueryService(categoryRepo, productRepo)
	orderService := orderapp.NewOrderService(ordermysql.NewOrderRepository(database), publisher, collector)

	// 10. 创建 HTTP 与 gRPC 服务器
	if err := validation.RegisterGinValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	httpServer := createHTTPServer(cfg, database, handlers{
		users:   userhttp.NewUserHandler(userService),
		catalog: cataloghttp.NewCatalogHandler(catalogCommands, catalogQueries, int64(cfg.HTTP.MaxUploadSize)<<20),
		orders:  orderhttp.NewOrderHandler(orderService),
	}, rateLimiter, collector)
	grpcServer, healthServer := createGRPCServer(cfg, rateLimiter)

	// 11. 启动服务器，任一失败或收到信号时整体退出
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen grpc: %w", err)
			}
			logger.Info(gctx, "Starting gRPC server", "addr", addr)
			return grpcServer.Serve(listener)
		})
	}

	if metricsServer != nil {
		g.Go(func() error {
			return metrics.Serve(gctx, metricsServer)
		})
	}

	// 12. 优雅关停
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down ecommerce service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
		if grpcServer != nil {
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		}
		return nil
	})

	return g.Wait()
}

// migrate 按依赖顺序建表：订单表引用 users 与 products，必须最后建
func migrate(database *db.DB) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"user", func() error { return usermysql.AutoMigrate(database.DB) }},
		{"catalog", func() error { return catalogmysql.AutoMigrate(database.DB) }},
		{"order", func() error { return ordermysql.AutoMigrate(database.DB) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("migrate %s tables: %w", step.name, err)
		}
	}
	return nil
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(cfg *config.Config, database *db.DB, h handlers, rateLimiter ratelimit.RateLimiter, collector metrics.MetricsCollector) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(rateLimiter, cfg.RateLimit))
	router.Use(metrics.GinMiddleware(collector))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := database.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	// 注册路由
	api := router.Group("/api/v1")
	h.users.RegisterRoutes(api)
	h.catalog.RegisterRoutes(api)
	h.orders.RegisterRoutes(api)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}

// createGRPCServer 创建只承载健康检查与反射的 gRPC 服务器，未启用时返回 nil
func createGRPCServer(cfg *config.Config, rateLimiter ratelimit.RateLimiter) (*grpc.Server, *health.Server) {
	if !cfg.GRPC.Enabled {
		return nil, nil
	}

	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.GRPCLoggingInterceptor(),
			middleware.GRPCRecoveryInterceptor(),
			middleware.GRPCRateLimitInterceptor(rateLimiter, cfg.RateLimit),
		),
		grpc.MaxConcurrentStreams(uint32(cfg.GRPC.MaxConcurrentStreams)),
	}
	server := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	return server, healthServer
}

// probeHealth 供容器健康检查使用：连接本机 gRPC 健康服务，SERVING 时返回 0
func probeHealth(cfg *config.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !cfg.GRPC.Enabled {
		logger.Error(ctx, "Health probe requires grpc.enabled")
		return 1
	}

	conn, err := grpcclient.NewClient(grpcclient.ClientConfig{
		Target:         fmt.Sprintf("127.0.0.1:%d", cfg.GRPC.Port),
		RequestTimeout: 2 * time.Second,
		MaxRetries:     2,
		RetryDelay:     200 * time.Millisecond,
	})
	if err != nil {
		logger.Error(ctx, "Health probe failed", "error", err)
		return 1
	}
	defer conn.Close()

	if err := grpcclient.CheckHealth(ctx, conn, cfg.ServiceName); err != nil {
		logger.Error(ctx, "Health probe failed", "error", err)
		return 1
	}
	return 0
}
