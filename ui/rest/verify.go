package rest

import (
	"github.com/gofiber/fiber/v2"

	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
)

type Verify struct {
	Service domainVerify.IVerifyUsecase
}

func InitRestVerify(app fiber.Router, service domainVerify.IVerifyUsecase) Verify {
	handler := Verify{Service: service}
	app.Post("/verify-claim", handler.VerifyClaim)

	return handler
}

func (handler *Verify) VerifyClaim(c *fiber.Ctx) error {
	var request domainVerify.VerifyRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
			Status:  fiber.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "request body must be valid JSON",
		})
	}

	result, err := handler.Service.VerifyClaim(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(result)
}
