package builtin

import (
	"context"
	"strings"
	"time"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/response"
)

// Ping 回复 pong
func Ping(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	resp.Reply("pong")
}

// Echo 原样回复参数
func Echo(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	resp.Reply(strings.Join(inv.Args, " "))
}

// Time 回复调用时间（UTC）
func Time(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	resp.Reply(inv.Time().UTC().Format(time.RFC3339))
}
