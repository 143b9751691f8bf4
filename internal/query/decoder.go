package query

import (
	"net/url"
	"strings"
)

// ErrMalformedQuery 表单编码中存在非法转义
type ErrMalformedQuery struct {
	Pair string
	Err  error
}

func (e *ErrMalformedQuery) Error() string {
	return "malformed query pair " + e.Pair + ": " + e.Err.Error()
}

func (e *ErrMalformedQuery) Unwrap() error {
	return e.Err
}

// Decode 解析 application/x-www-form-urlencoded 请求体
// 重复的 key 以最后一次出现为准，没有 '=' 的片段直接丢弃
func Decode(body []byte) (map[string]string, error) {
	fields := make(map[string]string)

	// 空请求体是合法的
	if len(body) == 0 {
		return fields, nil
	}

	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &ErrMalformedQuery{Pair: pair, Err: err}
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &ErrMalformedQuery{Pair: pair, Err: err}
		}

		fields[key] = value
	}

	return fields, nil
}
