package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lucheng0127/slackbot/internal/api"
	"github.com/lucheng0127/slackbot/internal/bot"
	"github.com/lucheng0127/slackbot/internal/builtin"
	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/db"
	"github.com/lucheng0127/slackbot/internal/mqtt"
)

// Server 服务器
type Server struct {
	config     *Config
	bot        *bot.Bot
	httpServer *http.Server
	mqttClient *mqtt.Client
	db         *bbolt.DB
	logger     *zap.Logger
}

// NewServer 创建服务器
func NewServer(config *Config, logger *zap.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry := command.NewRegistry(logger)

	// 初始化数据库（可选）
	var boltDB *bbolt.DB
	var repo db.NoteRepository
	if config.DBPath != "" {
		var err error
		boltDB, err = db.InitializeDB(config.DBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = db.NewBoltNoteRepository(boltDB, logger)
	}

	// 注册命令，之后注册表只读
	builtin.Register(registry, repo, logger)
	for _, sc := range config.StaticCommands {
		registry.Register(sc.Command, &builtin.StaticCommand{
			Text:      sc.Text,
			Username:  sc.Username,
			IconURL:   sc.IconURL,
			IconEmoji: sc.IconEmoji,
		})
	}

	b := bot.New(config.Defaults(), registry, logger)

	// 创建 HTTP 服务器
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	api.NewHandler(b, logger).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    config.HTTPAddr(),
		Handler: router,
	}

	// 创建 MQTT 客户端（可选）
	var mqttClient *mqtt.Client
	if config.MQTTBroker != "" {
		mqttClient = mqtt.NewClient(config.MQTTBroker, config.MQTTCommandTopic, config.MQTTResponseTopic, b, logger)
	}

	return &Server{
		config:     config,
		bot:        b,
		httpServer: httpServer,
		mqttClient: mqttClient,
		db:         boltDB,
		logger:     logger,
	}, nil
}

// Start 启动所有服务
func (s *Server) Start(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	// 启动 MQTT 客户端
	if s.mqttClient != nil {
		group.Go(func() error {
			if err := s.mqttClient.Start(ctx); err != nil {
				return fmt.Errorf("MQTT client error: %w", err)
			}
			return nil
		})
	}

	// 任一组件退出时关闭 HTTP 服务器，否则 Wait 会一直阻塞
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		return nil
	})

	// 启动 HTTP 服务器
	group.Go(func() error {
		s.logger.Info("HTTP server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		s.logger.Error("server error", zap.Error(err))
		return err
	}

	return nil
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown HTTP server", zap.Error(err))
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("failed to close database", zap.Error(err))
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Run 运行服务器（带信号处理）
func (s *Server) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return s.runUntil(sigChan)
}

// runUntil 运行到收到信号或某个组件出错，两种情况都会执行 Shutdown
func (s *Server) runUntil(sigChan <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	var runErr error
	select {
	case <-sigChan:
		s.logger.Info("received shutdown signal")
		// 取消 context 让 MQTT 客户端断开
		cancel()
	case runErr = <-errChan:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return runErr
}
