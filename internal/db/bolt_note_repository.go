package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/model"
)

// Bucket 名称
const (
	BUCKET_NOTES = "notes"
)

// BoltNoteRepository bbolt 实现的 NoteRepository
type BoltNoteRepository struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// NewBoltNoteRepository 创建 BoltNoteRepository
func NewBoltNoteRepository(db *bbolt.DB, logger *zap.Logger) *BoltNoteRepository {
	return &BoltNoteRepository{
		db:     db,
		logger: logger,
	}
}

// Save 保存或更新笔记
func (r *BoltNoteRepository) Save(ctx context.Context, note *model.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}

	key := []byte(model.StorageKey(note.Channel, note.Key))

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BUCKET_NOTES))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		now := time.Now()
		if existing := b.Get(key); existing != nil {
			// 更新现有笔记，保持 CreatedAt 不变
			var existingNote model.Note
			if err := json.Unmarshal(existing, &existingNote); err != nil {
				return err
			}
			note.CreatedAt = existingNote.CreatedAt
		} else if note.CreatedAt.IsZero() {
			note.CreatedAt = now
		}
		note.UpdatedAt = now

		data, err := json.Marshal(note)
		if err != nil {
			return err
		}

		return b.Put(key, data)
	})
}

// Find 查找频道中的笔记
func (r *BoltNoteRepository) Find(ctx context.Context, channel, key string) (*model.Note, error) {
	var note *model.Note
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BUCKET_NOTES))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		data := b.Get([]byte(model.StorageKey(channel, key)))
		if data == nil {
			return &ErrNoteNotFound{Channel: channel, Key: key}
		}

		var n model.Note
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}

		note = &n
		return nil
	})

	if err != nil {
		return nil, err
	}

	return note, nil
}

// List 列出频道中的所有笔记，按 key 排序
func (r *BoltNoteRepository) List(ctx context.Context, channel string) ([]*model.Note, error) {
	var notes []*model.Note
	prefix := []byte(model.ChannelPrefix(channel))

	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BUCKET_NOTES))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		// bbolt 的键按字节序存储，前缀扫描即可
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var note model.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			notes = append(notes, &note)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return notes, nil
}

// Delete 删除笔记
func (r *BoltNoteRepository) Delete(ctx context.Context, channel, key string) error {
	storageKey := []byte(model.StorageKey(channel, key))

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BUCKET_NOTES))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		if b.Get(storageKey) == nil {
			return &ErrNoteNotFound{Channel: channel, Key: key}
		}

		return b.Delete(storageKey)
	})
}

// InitializeDB 初始化数据库
func InitializeDB(dbPath string, logger *zap.Logger) (*bbolt.DB, error) {
	// 数据目录不存在时自动创建
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 创建 bucket
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BUCKET_NOTES))
		return err
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	logger.Info("database initialized", zap.String("path", dbPath))
	return db, nil
}
