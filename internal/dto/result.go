package dto

// Result is the envelope every API response is wrapped in.
type Result[T any] struct {
	Success bool     `json:"success"`
	Data    *T       `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors"`
}

func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: &data, Message: message, Errors: []string{}}
}

// Fail builds a failure envelope. With no explicit errors the message itself
// is reported as the single error.
func Fail(message string, errs ...string) Result[any] {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return Result[any]{Success: false, Message: message, Errors: errs}
}

// Page is a 1-indexed slice of a larger result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Provider  string `json:"provider,omitempty"`
}
