package image

import "errors"

// ErrorCode classifies image generation failures across all backends.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "IMAGE_INVALID_REQUEST"     // 参数/格式错误
	ErrMissingAPIKey  ErrorCode = "IMAGE_MISSING_API_KEY"     // 未配置密钥
	ErrUpstream       ErrorCode = "IMAGE_UPSTREAM_ERROR"      // 上游 API 错误
	ErrStoreWrite     ErrorCode = "IMAGE_STORE_WRITE"         // 磁带写入失败
	ErrStoreRead      ErrorCode = "IMAGE_STORE_READ"          // 磁带读取失败
	ErrStoreCorrupt   ErrorCode = "IMAGE_STORE_CORRUPT"       // 磁带内容损坏
	ErrExhausted      ErrorCode = "IMAGE_CASSETTE_EXHAUSTED"  // 回放记录耗尽
	ErrConfiguration  ErrorCode = "IMAGE_CONFIGURATION_ERROR" // 回放配置错误
)

// Error is the unified error type surfaced by every Generator backend.
// It serializes cleanly, so recorded failures replay as the same value.
type Error struct {
	Code       ErrorCode `json:"code" yaml:"code"`
	Message    string    `json:"message" yaml:"message"`
	HTTPStatus int       `json:"http_status,omitempty" yaml:"http_status,omitempty"`
	Retryable  bool      `json:"retryable,omitempty" yaml:"retryable,omitempty"`
	Provider   string    `json:"provider,omitempty" yaml:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// AsError returns err as *Error when it is one, and otherwise wraps it
// as an upstream failure so it can be recorded in a typed form.
func AsError(err error) *Error {
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	return &Error{Code: ErrUpstream, Message: err.Error()}
}
