package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/sarveshmathanraj02/employee-task-app/internal/api/auth"
	"github.com/sarveshmathanraj02/employee-task-app/internal/api/middleware"
	"github.com/sarveshmathanraj02/employee-task-app/internal/config"
	"github.com/sarveshmathanraj02/employee-task-app/internal/model"
	"github.com/sarveshmathanraj02/employee-task-app/internal/pkg/metrics"
	"github.com/sarveshmathanraj02/employee-task-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、各实体的存储接口以及 Gin 路由引擎。
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *gorm.DB
	router    *gin.Engine
	auth      *auth.Handler
	users     middleware.UserFinder
	employees EmployeeStore
	tasks     TaskStore
}

// EmployeeStore 是员工实体的存储契约。不存在一律以 nil/false 表示，不作为错误。
type EmployeeStore interface {
	List(ctx context.Context) ([]model.Employee, error)
	Get(ctx context.Context, id uint) (*model.Employee, error)
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Employee, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// TaskStore 是任务实体的存储契约，形状与 EmployeeStore 一致。
type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 初始化存储层与认证处理器
// 3. 初始化 Gin 路由引擎
//
// 参数:
//
//	ctx: 上下文
//	cfg: 配置对象
//	logger: 日志记录器
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Employee{}, &model.Task{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	userStore := store.NewUserStore(db)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		router:    r,
		auth:      auth.NewHandler(userStore, cfg.Security.JWTSecret, cfg.App.TokenTTL, logger),
		users:     userStore,
		employees: store.NewEmployeeStore(db),
		tasks:     store.NewTaskStore(db),
	}
	s.registerRoutes()
	return s, nil
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 关闭数据库连接。
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	// Prometheus metrics 端点
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/", s.handleRoot)
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/signup", s.auth.Signup)
	s.router.POST("/login", s.auth.Login)

	authed := s.router.Group("/")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret, s.users))
	authed.GET("/employees", s.handleListEmployees)
	authed.POST("/employees", s.handleCreateEmployee)
	authed.GET("/employees/:id", s.handleGetEmployee)
	authed.PUT("/employees/:id", s.handleUpdateEmployee)
	authed.DELETE("/employees/:id", s.handleDeleteEmployee)
	authed.GET("/tasks", s.handleListTasks)
	authed.POST("/tasks", s.handleCreateTask)
	authed.GET("/tasks/:id", s.handleGetTask)
	authed.PUT("/tasks/:id", s.handleUpdateTask)
	authed.DELETE("/tasks/:id", s.handleDeleteTask)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Employee Task API with authentication is running!"})
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parsePathID 解析路径参数中的数字 ID。
//
// 参数:
//
//	c: Gin 上下文
//	key: 参数名
//
// 返回值:
//
//	uint: 解析后的 ID
//	bool: 是否解析成功
func parsePathID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
