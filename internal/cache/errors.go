package cache

import "errors"

// Ошибки кэша
var (
	// ErrInvalidCacheKey возникает при невалидном ключе
	ErrInvalidCacheKey = errors.New("invalid cache key")

	// ErrUnexpectedReply - ответ Redis неожиданной формы
	ErrUnexpectedReply = errors.New("unexpected redis reply")
)

// CacheError - структурированная ошибка кэша
type CacheError struct {
	Op  string // Операция: "hincr", "hmget", "ping"
	Key string // Ключ кэша
	Err error  // Оригинальная ошибка
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return "redis " + e.Op + " '" + e.Key + "': " + e.Err.Error()
	}
	return "redis " + e.Op + ": " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError создает новую структурированную ошибку
func NewCacheError(op, key string, err error) error {
	return &CacheError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
