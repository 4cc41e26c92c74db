package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	// CreatedResponse wraps a created record. Notice is set when its notification email could not be sent.
	CreatedResponse struct {
		Data   interface{} `json:"data"`
		Notice string      `json:"notice,omitempty"`
	}
)

// bind decodes the request body into data, reporting malformed bodies as bad requests.
func bind(ctx echo.Context, data interface{}, name string) error {
	if err := ctx.Bind(data); err != nil {
		if _, ok := err.(*echo.HTTPError); ok {
			return err
		}
		return errors.Wrap(err, "binding to "+name)
	}
	return nil
}
