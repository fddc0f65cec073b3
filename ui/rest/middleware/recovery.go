package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
)

// Recovery turns panics into JSON responses. Typed errors keep their status
// code and machine-readable code; anything else becomes a 500. No error is
// allowed to crash the process.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				var res utils.ResponseData
				res.Status = 500
				res.Code = "INTERNAL_SERVER_ERROR"
				res.Message = fmt.Sprintf("%v", err)

				logrus.Errorf("[REST] panic recovered: %v", err)

				if typedErr, isTyped := err.(pkgError.GenericError); isTyped {
					res.Status = typedErr.StatusCode()
					res.Code = typedErr.ErrCode()
					res.Message = typedErr.Error()
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}
