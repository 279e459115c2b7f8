// Package operation exposes the operation timeline and deletion endpoints
// over the Fiber web framework.
package operation

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/ledger"
	"github.com/hbenmansour/cashops/pkg/middleware"
	authsvc "github.com/hbenmansour/cashops/pkg/service/auth"
	operationsvc "github.com/hbenmansour/cashops/pkg/service/operation"
	"github.com/hbenmansour/cashops/webapi/common"
)

// Routes registers the operation endpoints. All routes require a valid
// bearer token.
//
// Routes:
//   - GET    /operations           : Unified timeline with optional filters.
//   - GET    /operations/stats     : Aggregates over the filtered timeline.
//   - DELETE /operations/:type/:id : Soft-delete one operation.
func Routes(
	app *fiber.App,
	orch *ledger.Orchestrator,
	opSvc *operationsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Get("/operations", middleware.JwtProtected(cfg.Jwt), ListOperations(orch))
	app.Get("/operations/stats", middleware.JwtProtected(cfg.Jwt), GetStats(orch))
	app.Delete("/operations/:type/:id", middleware.JwtProtected(cfg.Jwt), DeleteOperation(opSvc, authSvc))
}

// ListOperations returns a Fiber handler serving the unified timeline.
// Filters narrow the already-fetched timeline; force bypasses the fetch rate
// limit and restarts an in-flight cycle. When the latest cycle failed but an
// older timeline exists, that timeline is served with stale set.
// @Summary List ledger operations
// @Description Returns the unified deposits/withdrawals/transfers timeline, newest first. Supports type, free-text and date-range filters.
// @Tags operations
// @Produce json
// @Param type query string false "Operation type filter"
// @Param q query string false "Comma-separated search terms"
// @Param from query string false "Start day (YYYY-MM-DD), inclusive"
// @Param to query string false "End day (YYYY-MM-DD), inclusive"
// @Param force query bool false "Bypass the fetch rate limit"
// @Success 200 {object} common.Response "Timeline"
// @Failure 400 {object} common.ProblemDetails "Invalid query"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 502 {object} common.ProblemDetails "Fetch failed with no cached timeline"
// @Router /operations [get]
// @Security Bearer
func ListOperations(orch *ledger.Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := common.BindQueryAndValidate[ListOperationsQuery](c)
		if err != nil {
			// The 400 problem response is already written; returning the error
			// would let the app error handler overwrite it with a 500.
			return nil
		}

		timeline, fetchErr := orch.Fetch(c.Context(), query.Force)
		if fetchErr != nil && len(timeline) == 0 {
			return common.ErrorResponseJSON(c, fiber.StatusBadGateway, "Timeline fetch failed", fetchErr.Error())
		}

		filtered := ledger.Apply(timeline, query.Filter())
		resp := TimelineResponse{
			Operations: make([]OperationResponse, len(filtered)),
			State:      orch.State().String(),
			Stale:      fetchErr != nil,
		}
		for i, op := range filtered {
			resp.Operations[i] = toOperationResponse(op)
		}
		message := "Operations"
		if resp.Stale {
			message = "Operations (serving last known timeline)"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, message, resp)
	}
}

// GetStats returns a Fiber handler serving count and amount aggregates over
// the filtered timeline. It never forces a fetch; it reads through the same
// rate-limited path as ListOperations.
// @Summary Timeline aggregates
// @Description Returns per-type counts and exact amount totals for the filtered timeline.
// @Tags operations
// @Produce json
// @Param type query string false "Operation type filter"
// @Param q query string false "Comma-separated search terms"
// @Param from query string false "Start day (YYYY-MM-DD), inclusive"
// @Param to query string false "End day (YYYY-MM-DD), inclusive"
// @Success 200 {object} common.Response "Aggregates"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Router /operations/stats [get]
// @Security Bearer
func GetStats(orch *ledger.Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := common.BindQueryAndValidate[ListOperationsQuery](c)
		if err != nil {
			return nil
		}

		timeline, fetchErr := orch.Fetch(c.Context(), false)
		if fetchErr != nil && len(timeline) == 0 {
			return common.ErrorResponseJSON(c, fiber.StatusBadGateway, "Timeline fetch failed", fetchErr.Error())
		}

		stats := ledger.ComputeStats(ledger.Apply(timeline, query.Filter()))
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Stats", stats)
	}
}

// DeleteOperation returns a Fiber handler performing the audit-then-delete
// sequence for one operation. Deleting a row that is already gone succeeds
// with already_deleted set. Transfer deletions report the reversal
// reconciliation outcome.
// @Summary Delete an operation
// @Description Copies the operation into its audit mirror and removes the canonical row, in one transaction. Transfer deletions may restore the superseded deposit or withdrawal.
// @Tags operations
// @Produce json
// @Param type path string true "Operation type"
// @Param id path string true "Operation id"
// @Success 200 {object} common.Response "Deleted"
// @Failure 400 {object} common.ProblemDetails "Unknown operation type"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 422 {object} common.ProblemDetails "Malformed operation id"
// @Router /operations/{type}/{id} [delete]
// @Security Bearer
func DeleteOperation(opSvc *operationsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", domain.ErrUnauthorized)
		}
		actorID, err := authSvc.CurrentActorID(token)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}

		opType, ok := domain.ParseOpType(c.Params("type"))
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Unknown operation type", c.Params("type"))
		}
		// The historical direct_transfer rows are read-only: no current flow
		// produces them and no audit mirror exists for the variant.
		if opType == domain.OpDirectTransfer {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Operation type not deletable", c.Params("type"))
		}

		res, err := opSvc.Delete(c.Context(), domain.Operation{
			ID:   domain.OperationID{Raw: c.Params("id")},
			Type: opType,
		}, actorID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete operation", err)
		}

		return common.SuccessResponseJSON(c, fiber.StatusOK, "Operation deleted", DeleteResponse{
			AlreadyDeleted: res.AlreadyDeleted,
			Restore:        string(res.Restore),
			RestoredType:   string(res.RestoredType),
			RestoredID:     res.RestoredID,
		})
	}
}
