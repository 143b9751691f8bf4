package builtin

import (
	"context"
	"os"
	"time"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/response"
)

// StatusCommand 回复主机名和运行时长
type StatusCommand struct {
	startTime time.Time
	hostname  func() string
}

// NewStatusCommand 创建 status 命令
func NewStatusCommand() *StatusCommand {
	return &StatusCommand{
		startTime: time.Now(),
		hostname:  getHostname,
	}
}

// Handle 执行 status 命令
func (c *StatusCommand) Handle(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	uptime := time.Since(c.startTime).Truncate(time.Second)
	resp.Replyf("Running on %s", c.hostname())
	resp.Replyf("Uptime: %s", uptime)
}

// getHostname 获取主机名
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
