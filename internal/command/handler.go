package command

import (
	"context"

	"github.com/lucheng0127/slackbot/internal/response"
)

// Handler 命令处理器接口
// 处理结果只能通过 resp 返回
type Handler interface {
	Handle(ctx context.Context, inv *Invocation, resp *response.Response)
}

// HandlerFunc 让普通函数满足 Handler
type HandlerFunc func(ctx context.Context, inv *Invocation, resp *response.Response)

// Handle 调用 f
func (f HandlerFunc) Handle(ctx context.Context, inv *Invocation, resp *response.Response) {
	f(ctx, inv, resp)
}
