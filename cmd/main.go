package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"budgetsmart_dev_v1/internal/controller"
	"budgetsmart_dev_v1/internal/middleware"
	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/internal/router"
	"budgetsmart_dev_v1/internal/service"
	"budgetsmart_dev_v1/internal/task"
	"budgetsmart_dev_v1/pkg/config"
	"budgetsmart_dev_v1/pkg/database"
	"budgetsmart_dev_v1/pkg/logger"
	"budgetsmart_dev_v1/pkg/utils"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. 初始化日志
	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLog.Sync()

	// 3. 初始化数据库
	db := initDatabase(cfg)

	// 4. 初始化依赖
	deps := initDependencies(cfg, db, appLog)

	// 5. 启动后台任务
	initTasks(deps)
	defer deps.Pool.Stop()
	defer deps.Cleanup.Stop()

	// 6. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers, cfg.Upload.Dir)
	startServer(r, cfg.Server.Port, appLog)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Pool        *task.IngestPool
	Cleanup     *task.JobCleanupTask
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Seller repository.SellerRepository
	Item   repository.ItemRepository
	Job    repository.IngestJobRepository
}

// Services 服务集合
type Services struct {
	Ingest  *service.IngestService
	Catalog *service.CatalogService
	Basket  *service.BasketService
	Storage *service.StorageService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN,
		&model.Seller{}, &model.Item{}, &model.IngestJob{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, appLog *logger.Logger) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Seller: repository.NewSellerRepository(db),
		Item:   repository.NewItemRepository(db),
		Job:    repository.NewIngestJobRepository(db),
	}

	// -------- 抓取管线与工作池 --------
	fetchClient := utils.NewFetchClient(cfg.Ingest.FetchTimeout)
	ingestSvc := service.NewIngestService(
		repos.Item, repos.Job, fetchClient, cfg.Ingest.MaxItemsPerRun, appLog,
	)
	pool := task.NewIngestPool(
		ingestSvc, cfg.Ingest.Workers, cfg.Ingest.QueueSize,
		cfg.Ingest.FetchTimeout+time.Minute, appLog,
	)

	// -------- 业务服务 --------
	storageSvc, err := service.NewStorageService(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	catalogSvc := service.NewCatalogService(
		repos.Seller, repos.Item, repos.Job,
		ingestSvc, pool, middleware.NewIngestRateLimiter(),
		cfg.Ingest.Cooldown, appLog,
	)
	basketSvc := service.NewBasketService(repos.Item, appLog)

	services := &Services{
		Ingest:  ingestSvc,
		Catalog: catalogSvc,
		Basket:  basketSvc,
		Storage: storageSvc,
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Seller: controller.NewSellerController(catalogSvc, storageSvc),
		Search: controller.NewSearchController(basketSvc, catalogSvc),
		Job:    controller.NewJobController(catalogSvc),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Pool:        pool,
		Cleanup:     task.NewJobCleanupTask(repos.Job, cfg.Ingest.JobRetention, appLog),
		Controllers: controllers,
	}
}

// ==================== 后台任务 ====================

// initTasks 启动后台任务
func initTasks(deps *Dependencies) {
	deps.Pool.Start()
	deps.Cleanup.Start()
}

// ==================== 服务启动 ====================

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, port string, appLog *logger.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		appLog.Info("服务启动", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("服务启动失败", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatal("服务强制关闭", "error", err)
	}

	appLog.Info("服务已退出")
}
