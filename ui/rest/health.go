package rest

import (
	"github.com/gofiber/fiber/v2"

	domainHealth "github.com/Rutvik2598/PostPolice/domains/health"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
)

type Health struct {
	Service domainHealth.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service domainHealth.IHealthUsecase) Health {
	handler := Health{Service: service}
	app.Get("/health", handler.Probe)
	app.Get("/health/history", handler.History)
	app.Post("/health/check-all", handler.CheckAll)

	return handler
}

// Probe never fails the request: an unreachable store is reported in the
// body, not the status code.
func (h *Health) Probe(c *fiber.Ctx) error {
	return c.JSON(h.Service.Probe(c.UserContext()))
}

func (h *Health) History(c *fiber.Ctx) error {
	records, err := h.Service.History(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ResponseData{
			Status:  fiber.StatusInternalServerError,
			Code:    "INTERNAL_SERVER_ERROR",
			Message: err.Error(),
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Health history retrieved",
		Results: records,
	})
}

func (h *Health) CheckAll(c *fiber.Ctx) error {
	records, err := h.Service.CheckAll(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ResponseData{
			Status:  fiber.StatusInternalServerError,
			Code:    "INTERNAL_SERVER_ERROR",
			Message: err.Error(),
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Health check completed",
		Results: records,
	})
}
