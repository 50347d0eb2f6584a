package http

import (
	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/input"
	"golang-logserver/internal/ports/output"
	"golang-logserver/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPHandler struct - Primary/Driving adapter for the admin HTTP API
type HTTPHandler struct {
	store      output.LogStore
	dispatcher input.Dispatcher
	validator  validator.Validator
}

// New func - Creates new HTTP handler
func New(store output.LogStore, dispatcher input.Dispatcher) *HTTPHandler {
	return &HTTPHandler{
		store:      store,
		dispatcher: dispatcher,
		validator:  validator.New(),
	}
}

// Routes registers the admin endpoints on app
func (hdl *HTTPHandler) Routes(app *fiber.App) {
	app.Get("/health", hdl.HealthCheck)

	api := app.Group("/v1/api")
	{
		api.Get("/log", hdl.GetLog)
		api.Get("/stats", hdl.GetStats)
	}
}

// HealthCheck func
// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the log store can be read
// @Tags ADMIN
// @Success 200 {object} ResponseBody
// @Failure 500 {object} ResponseBody
// @Router /health [get]
// @Produce json
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	if _, err := hdl.store.ReadAll(); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// GetLog func
/* read log */
// GetLog godoc
// @Summary Read log
// @Description Returns a snapshot of the shared log
// @Tags LOG
// @Success 200 {object} ResponseBody{data=LogResponse}
// @Failure 400 {object} ResponseBody
// @Failure 500 {object} ResponseBody
// @Router /v1/api/log [get]
// @Produce json
// @param tail query int false "only the last n records"
func (hdl *HTTPHandler) GetLog(c *fiber.Ctx) error {
	var query LogQueryRequest
	if err := c.QueryParser(&query); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(query); err != nil {
		msg := ResponseBody{
			Status: BadRequest,
		}
		msg.Status.Message = validator.Messages(err)
		return c.Status(fiber.StatusBadRequest).JSON(msg)
	}

	content, err := hdl.store.ReadAll()
	if err != nil {
		logrus.Errorln(err)
		msg := ResponseBody{
			Status: InternalServerError,
		}
		msg.Status.Message = []string{
			err.Error(),
		}
		return c.Status(fiber.StatusInternalServerError).JSON(msg)
	}

	lines := domain.SplitLines(content)
	total := int64(len(lines))
	if query.Tail != nil && *query.Tail < len(lines) {
		lines = lines[len(lines)-*query.Tail:]
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status:    Success,
		Data:      LogResponse{Lines: lines, Content: domain.RenderLines(lines)},
		TotalItem: &total,
	})
}

// GetStats func
// GetStats godoc
// @Summary Worker pool stats
// @Description Returns the worker pool counters
// @Tags ADMIN
// @Success 200 {object} ResponseBody{data=domain.PoolStats}
// @Router /v1/api/stats [get]
// @Produce json
func (hdl *HTTPHandler) GetStats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: hdl.dispatcher.Stats()})
}
