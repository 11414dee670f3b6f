package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"localehub-go/internal/handler"
	"localehub-go/internal/i18n"
	"localehub-go/internal/middleware"
	"localehub-go/internal/repository"
	"localehub-go/internal/service"
	"localehub-go/pkg/logging"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func startServer(r *gin.Engine) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	conn := repository.RedisPool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			logging.Logger.Warn("Redis connection close failed", zap.Error(err))
		}
	}()

	logging.Logger.Info("Server exiting")
}

func main() {

	initConfig()
	logging.InitLoggerFromConfig()

	logging.Logger.Info("Application started")

	repository.InitDB(logging.Logger, logging.AtomicLevel)
	repository.InitRedis()

	// 构建语言注册表并做静态发现
	reg := i18n.New(i18n.Config{
		Dir:             viper.GetString("i18n.dir"),
		DefaultLocale:   viper.GetString("i18n.default"),
		BaseSeparator:   viper.GetString("i18n.base_separator"),
		BaseNavigator:   viper.GetBool("i18n.base_navigator"),
		UseLocalStorage: viper.GetBool("i18n.use_local_storage"),
		Antd:            viper.GetBool("i18n.antd"),
		Title:           viper.GetBool("i18n.title"),
	})
	if dir := reg.Config().Dir; dir != "" {
		if err := reg.LoadDir(dir); err != nil {
			logging.Logger.Fatal("Failed to load locale files", zap.Error(err))
		}
	}

	// 把库里的动态语言包灌入注册表
	if err := service.SyncLocales(reg); err != nil {
		logging.Logger.Warn("Initial locale sync failed", zap.Error(err))
	}

	reg.OnChange(func(locale string) {
		logging.Logger.Info("Locale switched", zap.String("locale", locale))
	})

	gin.SetMode(viper.GetString("server.mode"))
	r := gin.New()
	r.Use(gin.Recovery()) // 显式添加 Recovery 中间件

	// 注册全局错误中间件
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(reg))
	r.Use(middleware.AccessGuardMiddleware(viper.GetStringSlice("access.denied_paths")))

	api := r.Group("/api")
	{
		api.GET("/locales", handler.ListLocalesHandler(reg))
		api.POST("/locales", handler.AddLocaleHandler(reg))
		api.GET("/locale", handler.GetLocaleHandler(reg))
		api.PUT("/locale", handler.SetLocaleHandler(reg))
		api.POST("/translate", handler.TranslateHandler(reg))
	}

	r.GET("/", handler.HomeHandler(reg, viper.GetString("i18n.home_title_id")))

	c := cron.New()

	// 定时任务：每十分钟同步一次库里的动态语言包
	_, addErr := c.AddFunc("*/10 * * * *", func() {
		if err := service.SyncLocales(reg); err != nil {
			logging.Logger.Error("Failed to sync locale bundles via cron job", zap.Error(err))
		}
	})

	if addErr != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(addErr))
	}

	c.Start()

	startServer(r)
}
