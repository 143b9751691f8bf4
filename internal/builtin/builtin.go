// Package builtin 内置命令
package builtin

import (
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/db"
)

// Register 注册内置命令
// repo 为 nil 时不注册 note 命令
func Register(registry *command.Registry, repo db.NoteRepository, logger *zap.Logger) {
	registry.Register("help", NewHelpCommand(registry))
	registry.RegisterFunc("ping", Ping)
	registry.RegisterFunc("echo", Echo)
	registry.RegisterFunc("time", Time)
	registry.Register("status", NewStatusCommand())

	if repo != nil {
		registry.Register("note", NewNoteCommand(repo, logger))
	}
}
