package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fitgoals/backend/api/transport"
	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/pkg/httpcontext"
	"github.com/fitgoals/backend/repository"
	goalUC "github.com/fitgoals/backend/usecase/goal"
)

type GoalHandler struct {
	baseHandler
	uc *goalUC.UseCase
}

func NewGoalHandler(uc *goalUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List goals
// @Tags goals
// @Router /api/v1/goals [get]
func (h *GoalHandler) GetGoals(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	filter := repository.GoalFilter{
		OwnerID: ownerID,
		Status:  string(ctx.QueryArgs().Peek("status")),
		Limit:   parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:  parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goals, err := h.uc.ListGoals(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	h.respondSuccess(ctx, http.StatusOK, goals)
}

// @Summary Get a goal
// @Tags goals
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) GetGoal(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	id, ok := h.goalID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.GetGoal(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Create goal
// @Tags goals
// @Router /api/v1/goals [post]
func (h *GoalHandler) CreateGoal(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	payload, ok := h.parseGoalPayload(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateGoal(stdCtx, ownerID, payload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update goal
// @Tags goals
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) UpdateGoal(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	id, ok := h.goalID(ctx)
	if !ok {
		return
	}

	payload, ok := h.parseGoalPayload(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateGoal(stdCtx, id, payload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete goal
// @Tags goals
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	id, ok := h.goalID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteGoal(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Log an activity against a goal
// @Tags goals
// @Router /api/v1/goals/{id}/activities [post]
func (h *GoalHandler) LogActivity(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	id, ok := h.goalID(ctx)
	if !ok {
		return
	}

	var req transport.ActivityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "activity date must be RFC 3339", nil))
		return
	}

	payload := domain.ActivityPayload{
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		Date:            date,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.LogActivity(stdCtx, id, payload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, goal)
}

// @Summary Goal statistics for the dashboard
// @Tags goals
// @Router /api/v1/goals/stats [get]
func (h *GoalHandler) GetStats(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.GetStats(stdCtx, ownerID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

func (h *GoalHandler) parseGoalPayload(ctx *fasthttp.RequestCtx) (domain.GoalPayload, bool) {
	var req transport.GoalRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return domain.GoalPayload{}, false
	}

	payload := domain.GoalPayload{
		Title:       req.Title,
		Description: req.Description,
		Progress:    req.Progress,
	}

	if req.TargetDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.TargetDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "target date must be RFC 3339", nil))
			return domain.GoalPayload{}, false
		}
		payload.TargetDate = &parsed
	}

	if req.Status != nil {
		status := domain.Status(*req.Status)
		payload.Status = &status
	}

	return payload, true
}

func (h *GoalHandler) goalID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing goal id", nil))
		return "", false
	}
	return id, true
}

func (h *GoalHandler) ownerID(ctx *fasthttp.RequestCtx) string {
	ownerID := string(ctx.Request.Header.Peek("X-User-ID"))
	if ownerID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing owner id", nil))
	}
	return ownerID
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
