package model

import (
	"errors"
	"strings"
	"time"
)

// Note 频道内保存的一条笔记
type Note struct {
	Channel   string    `json:"channel"`
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote 创建新笔记
func NewNote(channel, key, text, author string) (*Note, error) {
	note := &Note{
		Channel: channel,
		Key:     key,
		Text:    text,
		Author:  author,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	return note, nil
}

// Validate 验证笔记数据
func (n *Note) Validate() error {
	if n.Channel == "" {
		return errors.New("channel is required")
	}

	if n.Key == "" {
		return errors.New("key is required")
	}

	// '/' 是存储键的分隔符
	if strings.Contains(n.Channel, "/") {
		return errors.New("channel must not contain '/'")
	}

	if strings.Contains(n.Key, "/") {
		return errors.New("key must not contain '/'")
	}

	return nil
}

// StorageKey 返回存储使用的键：channel/key
func StorageKey(channel, key string) string {
	return channel + "/" + key
}

// ChannelPrefix 返回频道下所有笔记的键前缀
func ChannelPrefix(channel string) string {
	return channel + "/"
}
