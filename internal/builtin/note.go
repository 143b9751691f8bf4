package builtin

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/command"
	"github.com/lucheng0127/slackbot/internal/db"
	"github.com/lucheng0127/slackbot/internal/model"
	"github.com/lucheng0127/slackbot/internal/response"
)

const noteUsage = "Usage: note set <key> <text> | note get <key> | note list | note del <key>"

// NoteCommand 频道笔记命令
type NoteCommand struct {
	repo   db.NoteRepository
	logger *zap.Logger
}

// NewNoteCommand 创建 note 命令
func NewNoteCommand(repo db.NoteRepository, logger *zap.Logger) *NoteCommand {
	return &NoteCommand{
		repo:   repo,
		logger: logger,
	}
}

// Handle 执行 note 命令
func (c *NoteCommand) Handle(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	if len(inv.Args) == 0 {
		resp.Reply(noteUsage)
		return
	}

	args := inv.Args[1:]
	switch inv.Args[0] {
	case "set":
		if len(args) < 2 {
			resp.Reply(noteUsage)
			return
		}
		c.set(ctx, inv, args[0], strings.Join(args[1:], " "), resp)

	case "get":
		if len(args) != 1 {
			resp.Reply(noteUsage)
			return
		}
		c.get(ctx, inv, args[0], resp)

	case "list":
		c.list(ctx, inv, resp)

	case "del":
		if len(args) != 1 {
			resp.Reply(noteUsage)
			return
		}
		c.del(ctx, inv, args[0], resp)

	default:
		resp.Reply(noteUsage)
	}
}

func (c *NoteCommand) set(ctx context.Context, inv *command.Invocation, key, text string, resp *response.Response) {
	note, err := model.NewNote(inv.ChannelName, key, text, inv.Username)
	if err != nil {
		resp.Replyf("Invalid note: %v", err)
		return
	}

	if err := c.repo.Save(ctx, note); err != nil {
		c.storageError(inv, key, err, resp)
		return
	}

	resp.Replyf("Saved note %s", key)
}

func (c *NoteCommand) get(ctx context.Context, inv *command.Invocation, key string, resp *response.Response) {
	note, err := c.repo.Find(ctx, inv.ChannelName, key)
	if err != nil {
		c.storageError(inv, key, err, resp)
		return
	}

	resp.Replyf("%s: %s (by %s)", note.Key, note.Text, note.Author)
}

func (c *NoteCommand) list(ctx context.Context, inv *command.Invocation, resp *response.Response) {
	notes, err := c.repo.List(ctx, inv.ChannelName)
	if err != nil {
		c.storageError(inv, "", err, resp)
		return
	}

	if len(notes) == 0 {
		resp.Reply("No notes in #" + inv.ChannelName)
		return
	}

	for _, note := range notes {
		resp.Replyf("%s: %s", note.Key, note.Text)
	}
}

func (c *NoteCommand) del(ctx context.Context, inv *command.Invocation, key string, resp *response.Response) {
	if err := c.repo.Delete(ctx, inv.ChannelName, key); err != nil {
		c.storageError(inv, key, err, resp)
		return
	}

	resp.Replyf("Deleted note %s", key)
}

// storageError 未找到时直接提示，其他错误记录日志
func (c *NoteCommand) storageError(inv *command.Invocation, key string, err error, resp *response.Response) {
	var notFound *db.ErrNoteNotFound
	if errors.As(err, &notFound) {
		resp.Replyf("No note named %s", notFound.Key)
		return
	}

	c.logger.Error("note storage failed",
		zap.String("channel", inv.ChannelName),
		zap.String("key", key),
		zap.Error(err),
	)
	resp.Reply("Failed to access notes, please try again later")
}
