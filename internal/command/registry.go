package command

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/response"
)

// Registry 命令注册表
// 启动时注册，之后只读，可被并发请求共享
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRegistry 创建命令注册表
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register 注册命令处理器，同名时覆盖
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	_, replaced := r.handlers[name]
	r.handlers[name] = handler
	r.mu.Unlock()

	r.logger.Info("command handler registered",
		zap.String("command", name),
		zap.Bool("replaced", replaced),
	)
}

// RegisterFunc 注册函数形式的处理器
func (r *Registry) RegisterFunc(name string, f func(ctx context.Context, inv *Invocation, resp *response.Response)) {
	r.Register(name, HandlerFunc(f))
}

// Lookup 查找处理器
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names 返回已注册的命令名（已排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Handle 分发并执行命令
// 未找到命令时直接向 resp 写入提示并返回 false
func (r *Registry) Handle(ctx context.Context, name string, inv *Invocation, resp *response.Response) bool {
	handler, ok := r.Lookup(name)
	if !ok {
		r.logger.Debug("command not found", zap.String("command", name))
		resp.Reply("Command not found: " + name)
		return false
	}

	r.logger.Debug("executing command",
		zap.String("command", name),
		zap.Strings("args", inv.Args),
		zap.String("channel", inv.ChannelName),
		zap.String("user", inv.Username),
	)

	handler.Handle(ctx, inv, resp)
	return true
}
