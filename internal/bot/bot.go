package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/query"
	"github.com/lucheng0127/slackbot/internal/response"
)

// Reply 渲染后的回复
type Reply struct {
	Body        []byte
	ContentType string
	// 是否匹配到已注册的命令
	Found bool
}

// Bot 请求编排器
// defaults 和 registry 在启动后只读
type Bot struct {
	defaults response.Defaults
	registry *command.Registry
	logger   *zap.Logger
}

// New 创建 Bot
func New(defaults response.Defaults, registry *command.Registry, logger *zap.Logger) *Bot {
	return &Bot{
		defaults: defaults,
		registry: registry,
		logger:   logger,
	}
}

// Registry 返回命令注册表
func (b *Bot) Registry() *command.Registry {
	return b.registry
}

// HandleRequest 处理一次请求：解码 → 解析 → 分发 → 渲染
// target 仅用于日志
func (b *Bot) HandleRequest(ctx context.Context, body []byte, target string) (*Reply, error) {
	b.logger.Debug("received request",
		zap.String("target", target),
		zap.ByteString("body", body),
	)

	fields, err := query.Decode(body)
	if err != nil {
		b.logger.Warn("failed to decode request", zap.String("target", target), zap.Error(err))
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	inv, err := command.ParseInvocation(fields)
	if err != nil {
		b.logger.Warn("failed to parse command", zap.String("target", target), zap.Error(err))
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	resp := response.New()
	found := b.registry.Handle(ctx, inv.Name, inv, resp)

	data, err := resp.Render(b.defaults)
	if err != nil {
		b.logger.Error("failed to render response",
			zap.String("command", inv.Name),
			zap.Error(err),
		)
		return nil, err
	}

	b.logger.Info("command handled",
		zap.String("command", inv.Name),
		zap.String("channel", inv.ChannelName),
		zap.String("user", inv.Username),
		zap.Bool("found", found),
	)

	return &Reply{
		Body:        data,
		ContentType: response.ContentType,
		Found:       found,
	}, nil
}
