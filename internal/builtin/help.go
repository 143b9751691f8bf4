package builtin

import (
	"context"
	"strings"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/response"
)

// HelpCommand 列出已注册的命令
type HelpCommand struct {
	registry *command.Registry
}

// NewHelpCommand 创建 help 命令
func NewHelpCommand(registry *command.Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

// Handle 执行 help 命令
func (c *HelpCommand) Handle(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	resp.Reply("Available commands: " + strings.Join(c.registry.Names(), ", "))
}
