package command

// ErrMissingField 缺少必需的表单字段
type ErrMissingField struct {
	Field string
}

func (e *ErrMissingField) Error() string {
	return "missing required field: " + e.Field
}

// ErrInvalidTimestamp timestamp 字段不是合法的十进制数
type ErrInvalidTimestamp struct {
	Value string
	Err   error
}

func (e *ErrInvalidTimestamp) Error() string {
	return "invalid timestamp: " + e.Value
}

func (e *ErrInvalidTimestamp) Unwrap() error {
	return e.Err
}
