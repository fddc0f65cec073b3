package rest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	domainMetrics "github.com/Rutvik2598/PostPolice/domains/metrics"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
)

type Metrics struct {
	Service domainMetrics.IMetricsUsecase
}

func InitRestMetrics(app fiber.Router, service domainMetrics.IMetricsUsecase) Metrics {
	rest := Metrics{Service: service}
	app.Get("/metrics", rest.Snapshot)
	app.Post("/clear-cache", rest.ClearCache)
	app.Post("/reset-stats", rest.ResetStats)

	return rest
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>PostPolice Cache</title></head>
<body>
<h1>Summary cache</h1>
<table border="1" cellpadding="6">
<tr><td>Hits</td><td>{{.CacheHits}}</td></tr>
<tr><td>Misses</td><td>{{.CacheMisses}}</td></tr>
<tr><td>Hit ratio</td><td>{{.HitRatio}}</td></tr>
<tr><td>Total keys</td><td>{{.TotalKeys}}</td></tr>
<tr><td>Used memory</td><td>{{.UsedMemoryHuman}}</td></tr>
<tr><td>Uptime</td><td>{{.Uptime}}s</td></tr>
</table>
</body>
</html>
`))

type dashboardView struct {
	domainMetrics.Snapshot
	HitRatio string
}

func (handler *Metrics) Snapshot(c *fiber.Ctx) error {
	snapshot, err := handler.Service.Snapshot(c.UserContext())
	utils.PanicIfNeeded(err)

	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		view := dashboardView{Snapshot: snapshot, HitRatio: "n/a"}
		if total := snapshot.CacheHits + snapshot.CacheMisses; total > 0 {
			view.HitRatio = fmt.Sprintf("%.1f%%", float64(snapshot.CacheHits)/float64(total)*100)
		}

		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, view); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ResponseData{
				Status:  fiber.StatusInternalServerError,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: err.Error(),
			})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(buf.Bytes())
	}

	return c.JSON(snapshot)
}

func (handler *Metrics) ClearCache(c *fiber.Ctx) error {
	scope := domainMetrics.PurgeScope(c.Query("scope", string(domainMetrics.ScopeAll)))

	if err := handler.Service.PurgeAll(c.UserContext(), scope); err != nil {
		status := fiber.StatusServiceUnavailable
		if typedErr, isTyped := err.(pkgError.GenericError); isTyped {
			status = typedErr.StatusCode()
		}
		return c.Status(status).JSON(domainMetrics.AdminResult{
			Success: false,
			Message: err.Error(),
		})
	}

	return c.JSON(domainMetrics.AdminResult{
		Success: true,
		Message: "Cache cleared successfully",
	})
}

func (handler *Metrics) ResetStats(c *fiber.Ctx) error {
	if err := handler.Service.ResetCounters(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(domainMetrics.AdminResult{
			Success: false,
			Message: err.Error(),
		})
	}

	return c.JSON(domainMetrics.AdminResult{
		Success: true,
		Message: "Counters reset successfully",
	})
}
