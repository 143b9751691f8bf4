package builtin

import (
	"context"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/response"
)

// StaticCommand 固定回复的命令，来自配置文件
// 空字符串的显示字段表示不覆盖
type StaticCommand struct {
	Text      string
	Username  string
	IconURL   string
	IconEmoji string
}

// Handle 执行固定回复
func (c *StaticCommand) Handle(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	resp.Reply(c.Text)

	if c.Username != "" {
		resp.SetUsername(c.Username)
	}
	if c.IconURL != "" {
		resp.SetIconURL(c.IconURL)
	}
	if c.IconEmoji != "" {
		resp.SetIconEmoji(c.IconEmoji)
	}
}
