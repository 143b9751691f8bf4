package response

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ContentType 渲染结果的内容类型
const ContentType = "application/json"

// Defaults 机器人级别的默认显示设置
// nil 表示未设置
type Defaults struct {
	Username  *string
	IconURL   *string
	IconEmoji *string
}

// Response 单个请求的回复累加器
// 只交给一个 handler 使用，不要跨请求共享
type Response struct {
	lines     []string
	username  *string
	iconURL   *string
	iconEmoji *string
}

// New 创建空的回复
func New() *Response {
	return &Response{}
}

// Reply 追加一行回复
func (r *Response) Reply(line string) {
	r.lines = append(r.lines, line)
}

// Replyf 格式化后追加一行回复
func (r *Response) Replyf(format string, args ...interface{}) {
	r.Reply(fmt.Sprintf(format, args...))
}

// Lines 返回已追加的回复行
func (r *Response) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Text 返回以换行连接的回复文本
func (r *Response) Text() string {
	return strings.Join(r.lines, "\n")
}

// SetUsername 覆盖本次回复的用户名
func (r *Response) SetUsername(username string) {
	r.username = &username
}

// SetIconURL 覆盖本次回复的头像 URL
func (r *Response) SetIconURL(iconURL string) {
	r.iconURL = &iconURL
}

// SetIconEmoji 覆盖本次回复的头像 emoji
func (r *Response) SetIconEmoji(iconEmoji string) {
	r.iconEmoji = &iconEmoji
}

// payload 输出的 JSON 结构
type payload struct {
	Text      string  `json:"text"`
	IconURL   *string `json:"icon_url,omitempty"`
	IconEmoji *string `json:"icon_emoji,omitempty"`
	Username  *string `json:"username,omitempty"`
}

// Render 渲染为 JSON
// 每个显示字段独立按 回复覆盖 → 机器人默认 → 省略 的顺序取值
func (r *Response) Render(defaults Defaults) ([]byte, error) {
	p := payload{
		Text:      r.Text(),
		IconURL:   resolve(r.iconURL, defaults.IconURL),
		IconEmoji: resolve(r.iconEmoji, defaults.IconEmoji),
		Username:  resolve(r.username, defaults.Username),
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return data, nil
}

func resolve[T any](override, fallback *T) *T {
	if override != nil {
		return override
	}
	return fallback
}

// StringOrNil 空字符串视为未设置
func StringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
