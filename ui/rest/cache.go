package rest

import (
	"github.com/gofiber/fiber/v2"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
)

type Cache struct {
	Service domainCache.ICacheUsecase
}

func InitRestCache(app fiber.Router, service domainCache.ICacheUsecase) Cache {
	rest := Cache{Service: service}
	app.Post("/check-summary", rest.CheckSummary)
	app.Post("/cache-summary", rest.CacheSummary)

	return rest
}

func (handler *Cache) CheckSummary(c *fiber.Ctx) error {
	var request domainCache.CheckRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
			Status:  fiber.StatusBadRequest,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	result, err := handler.Service.CheckSummary(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(result)
}

func (handler *Cache) CacheSummary(c *fiber.Ctx) error {
	var request domainCache.StoreRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
			Status:  fiber.StatusBadRequest,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	if err := handler.Service.CacheSummary(c.UserContext(), request); err != nil {
		if _, isValidation := err.(pkgError.ValidationError); isValidation {
			panic(err) // recovery maps it to a 400
		}
		status := fiber.StatusBadGateway
		if typedErr, isTyped := err.(pkgError.GenericError); isTyped {
			status = typedErr.StatusCode()
		}
		return c.Status(status).JSON(domainCache.StoreResult{
			Stored:  false,
			Message: err.Error(),
		})
	}

	return c.JSON(domainCache.StoreResult{Stored: true})
}
