package http

import (
	"alert-srv/internal/alert"
	"alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Create publishes a new alert.
// @Summary Create alert
// @Description Persist a new alert and push it to connected sessions. Admin only.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body createReq true "Alert"
// @Success 201 {object} response.Resp{data=alertResp}
// @Failure 400 {object} response.Resp "Validation error"
// @Failure 401 {object} response.Resp "Unauthorized"
// @Failure 403 {object} response.Resp "Forbidden"
// @Router /alerts [POST]
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	sc, req, err := h.processCreateReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.Create(ctx, sc, req.toInput())
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.Created(c, h.newAlertResp(o.Alert))
}

// List returns the alerts visible to the caller.
// @Summary List alerts
// @Description Non-admin callers only see hospital_wide alerts and alerts of their own area. Status defaults to active.
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Param status query string false "active, acknowledged, resolved or expired"
// @Param severity query string false "low, medium, high or critical"
// @Param area query string false "Area"
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Resp{data=listResp}
// @Failure 401 {object} response.Resp "Unauthorized"
// @Router /alerts [GET]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	sc, req, err := h.processListReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.Get(ctx, sc, req.toInput())
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, h.newListResp(o))
}

// Detail returns one alert.
// @Summary Get alert
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Resp{data=alertResp}
// @Failure 404 {object} response.Resp "Alert not found"
// @Router /alerts/{id} [GET]
func (h *Handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	sc, id, err := h.processIDReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.Detail(ctx, sc, id)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, h.newAlertResp(o.Alert))
}

// Acknowledge records that the caller has seen the alert. Repeating it is a no-op.
// @Summary Acknowledge alert
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Resp{data=alertResp}
// @Failure 404 {object} response.Resp "Alert not found"
// @Router /alerts/{id}/acknowledge [PUT]
func (h *Handler) Acknowledge(c *gin.Context) {
	ctx := c.Request.Context()

	sc, id, err := h.processIDReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.Acknowledge(ctx, sc, id)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, h.newAlertResp(o.Alert))
}

// Resolve closes an active alert.
// @Summary Resolve alert
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Resp{data=alertResp}
// @Failure 404 {object} response.Resp "Alert not found"
// @Failure 409 {object} response.Resp "Alert already resolved or expired"
// @Router /alerts/{id}/resolve [PUT]
func (h *Handler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()

	sc, id, err := h.processIDReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.Resolve(ctx, sc, id)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, h.newAlertResp(o.Alert))
}

// CompleteAction marks one recommended action as done.
// @Summary Complete recommended action
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Param id path string true "Alert ID"
// @Param index path int true "Action index"
// @Success 200 {object} response.Resp{data=alertResp}
// @Failure 403 {object} response.Resp "Action assigned to someone else"
// @Failure 404 {object} response.Resp "Alert or action not found"
// @Failure 409 {object} response.Resp "Alert already resolved or expired"
// @Router /alerts/{id}/actions/{index}/complete [PUT]
func (h *Handler) CompleteAction(c *gin.Context) {
	ctx := c.Request.Context()

	sc, ip, err := h.processCompleteActionReq(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	o, err := h.uc.CompleteAction(ctx, sc, ip)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, h.newAlertResp(o.Alert))
}

// Sweep runs the expiration sweep now. It joins a running sweep instead of starting a second one.
// @Summary Trigger expiration sweep
// @Tags Alerts
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Resp{data=alert.SweepOutput}
// @Router /alerts/sweep [POST]
func (h *Handler) Sweep(c *gin.Context) {
	o, err := h.uc.Sweep(c.Request.Context(), alert.SweepInput{Trigger: alert.SweepTriggerManual})
	if err != nil {
		response.ErrorWithMap(c, err, errMap, h.discord)
		return
	}

	response.OK(c, o)
}
