package response

import (
	"net/http"

	"github.com/dmitrymomot/cachesession/core/handler"
)

// Error returns a response that hands err to the error handler when rendered.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
