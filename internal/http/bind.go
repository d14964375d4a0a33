package http

import (
	"github.com/gin-gonic/gin"
)

// Validator is implemented by request types with checks that struct tags
// cannot express.
type Validator interface {
	Validate() error
}

// bindJSON decodes the body into a new T and runs its Validate method if it
// has one.
func bindJSON[T any](c *gin.Context) (*T, error) {
	return bind[T](c.ShouldBindJSON)
}

// bindQuery is bindJSON for the query string.
func bindQuery[T any](c *gin.Context) (*T, error) {
	return bind[T](c.ShouldBindQuery)
}

func bind[T any](decode func(any) error) (*T, error) {
	req := new(T)
	if err := decode(req); err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}
