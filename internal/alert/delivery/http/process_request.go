package http

import (
	"strconv"

	"alert-srv/internal/alert"
	"alert-srv/internal/model"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

func (h *Handler) processScope(c *gin.Context) (model.Scope, error) {
	sc, ok := scope.GetScopeFromContext(c.Request.Context())
	if !ok {
		return model.Scope{}, errUnauthorized
	}
	return sc, nil
}

func (h *Handler) processCreateReq(c *gin.Context) (model.Scope, createReq, error) {
	sc, err := h.processScope(c)
	if err != nil {
		return model.Scope{}, createReq{}, err
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.alert.delivery.http.processCreateReq.ShouldBindJSON: %v", err)
		return model.Scope{}, createReq{}, errWrongBody
	}
	return sc, req, nil
}

func (h *Handler) processListReq(c *gin.Context) (model.Scope, listReq, error) {
	sc, err := h.processScope(c)
	if err != nil {
		return model.Scope{}, listReq{}, err
	}

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.alert.delivery.http.processListReq.ShouldBindQuery: %v", err)
		return model.Scope{}, listReq{}, errWrongQuery
	}
	return sc, req, nil
}

func (h *Handler) processIDReq(c *gin.Context) (model.Scope, string, error) {
	sc, err := h.processScope(c)
	if err != nil {
		return model.Scope{}, "", err
	}
	return sc, c.Param("id"), nil
}

func (h *Handler) processCompleteActionReq(c *gin.Context) (model.Scope, alert.CompleteActionInput, error) {
	sc, id, err := h.processIDReq(c)
	if err != nil {
		return model.Scope{}, alert.CompleteActionInput{}, err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return model.Scope{}, alert.CompleteActionInput{}, errInvalidIndex
	}
	return sc, alert.CompleteActionInput{ID: id, Index: index}, nil
}
