package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/bot"
)

// Handler API 处理器
type Handler struct {
	bot       *bot.Bot
	logger    *zap.Logger
	startTime time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(b *bot.Bot, logger *zap.Logger) *Handler {
	return &Handler{
		bot:       b,
		logger:    logger,
		startTime: time.Now(),
	}
}

// RegisterRoutes 注册路由
// 除健康检查外的所有请求都交给命令入口，不按路径路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.NoRoute(h.HandleCommand)
}

// HandleCommand 处理 webhook 回调
func (h *Handler) HandleCommand(c *gin.Context) {
	target := c.Request.URL.RequestURI()

	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("failed to read request body", zap.String("target", target), zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	reply, err := h.bot.HandleRequest(c.Request.Context(), body, target)
	if err != nil {
		// 解码或解析失败：记录日志，不返回内容
		c.Status(http.StatusOK)
		return
	}

	c.Data(http.StatusOK, reply.ContentType, reply.Body)
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string   `json:"status"`
	Uptime   string   `json:"uptime"`
	Commands []string `json:"commands"`
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	uptime := time.Since(h.startTime)
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   uptime.String(),
		Commands: h.bot.Registry().Names(),
	})
}
