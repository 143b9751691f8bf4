package command

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// 必需的表单字段
const (
	FIELD_TEXT         = "text"
	FIELD_CHANNEL_NAME = "channel_name"
	FIELD_TIMESTAMP    = "timestamp"
	FIELD_USER_NAME    = "user_name"
)

// 按此顺序检查
var requiredFields = []string{
	FIELD_TEXT,
	FIELD_CHANNEL_NAME,
	FIELD_TIMESTAMP,
	FIELD_USER_NAME,
}

// Invocation 一次命令调用
type Invocation struct {
	ChannelName string
	// 自 epoch 起的秒数
	Timestamp float64
	Username  string
	RawText   string
	// 命令名，即 text 的第一个 token
	Name string
	// 参数，不包含命令名
	Args []string
}

// ParseInvocation 从解码后的表单字段构建命令调用
func ParseInvocation(fields map[string]string) (*Invocation, error) {
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return nil, &ErrMissingField{Field: field}
		}
	}

	rawTimestamp := fields[FIELD_TIMESTAMP]
	timestamp, err := strconv.ParseFloat(rawTimestamp, 64)
	if err != nil {
		return nil, &ErrInvalidTimestamp{Value: rawTimestamp, Err: err}
	}

	name, args := Tokenize(fields[FIELD_TEXT])

	return &Invocation{
		ChannelName: fields[FIELD_CHANNEL_NAME],
		Timestamp:   timestamp,
		Username:    fields[FIELD_USER_NAME],
		RawText:     fields[FIELD_TEXT],
		Name:        name,
		Args:        args,
	}, nil
}

// Tokenize 按单个空格切分文本，返回命令名和参数
// 连续空格会产生空字符串参数，不做合并
func Tokenize(text string) (string, []string) {
	if text == "" {
		return "", []string{}
	}

	tokens := strings.Split(text, " ")
	return tokens[0], tokens[1:]
}

// Time 返回调用时间
func (inv *Invocation) Time() time.Time {
	sec, frac := math.Modf(inv.Timestamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
