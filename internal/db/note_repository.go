package db

import (
	"context"

	"github.com/lucheng0127/slackbot/internal/model"
)

// NoteRepository 定义笔记存储接口
type NoteRepository interface {
	// Save 保存或更新笔记
	Save(ctx context.Context, note *model.Note) error

	// Find 查找频道中的笔记
	Find(ctx context.Context, channel, key string) (*model.Note, error)

	// List 列出频道中的所有笔记
	List(ctx context.Context, channel string) ([]*model.Note, error)

	// Delete 删除笔记
	Delete(ctx context.Context, channel, key string) error
}

// ErrNoteNotFound 笔记不存在错误
type ErrNoteNotFound struct {
	Channel string
	Key     string
}

func (e *ErrNoteNotFound) Error() string {
	return "note not found: " + e.Key
}
