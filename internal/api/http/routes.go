package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pvehvila/spotprice-aggregation/internal/diag"
	"github.com/pvehvila/spotprice-aggregation/internal/spot"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *spot.Service, recorder *diag.Recorder) {
	v1 := app.Group("/api/v1")

	v1.Get("/prices/hourly", func(c *fiber.Ctx) error {
		day, err := parseDateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		series := service.HourlyForDay(c.Context(), day)
		if len(series) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no price data for requested day")
		}

		return c.JSON(fiber.Map{
			"day":    day.String(),
			"prices": series,
		})
	})

	v1.Get("/prices/quarter", func(c *fiber.Ctx) error {
		day, err := parseDateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		series := service.QuarterForDay(c.Context(), day)
		if len(series) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no price data for requested day")
		}

		return c.JSON(fiber.Map{
			"day":    day.String(),
			"prices": series,
		})
	})

	// The view is always 200; an empty row set is the UI's cue to render
	// its "no data" placeholder rather than stale figures.
	v1.Get("/prices/view", func(c *fiber.Ctx) error {
		return c.JSON(service.View(c.Context(), time.Now()))
	})

	v1.Get("/diagnostics", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"reports": recorder.Recent(),
		})
	})
}

// dateQuery holds the date query parameter shared by the series endpoints.
type dateQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func parseDateQuery(c *fiber.Ctx) (spot.CalendarDay, error) {
	q := dateQuery{Date: c.Query("date")}
	if err := validate.Struct(q); err != nil {
		return spot.CalendarDay{}, err
	}
	return spot.ParseDay(q.Date)
}
