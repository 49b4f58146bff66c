// Package rest exposes the trip engine over an HTTP JSON API.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/platform/requestctx"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/service"
)

// Actor identity headers. The transport asserts who is calling; the
// service re-derives crew roles from confirmed assignments and only
// trusts the ops_admin claim as-is.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

// Server routes HTTP requests into the trip service.
type Server struct {
	svc    *service.Service
	engine *gin.Engine
}

// NewServer builds the router with all trip endpoints registered.
func NewServer(svc *service.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{svc: svc, engine: engine}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	{
		v1.POST("/trips", s.createTrip)
		v1.GET("/trips", s.listTrips)
		v1.GET("/trips/:id", s.getTrip)

		v1.GET("/trips/:id/readiness", s.readiness)
		v1.GET("/trips/:id/completion", s.completion)
		v1.POST("/trips/:id/start", s.startTrip)
		v1.POST("/trips/:id/end", s.endTrip)

		v1.POST("/trips/:id/risk-assessments", s.submitRiskAssessment)
		v1.GET("/trips/:id/risk-assessments", s.riskHistory)
		v1.GET("/trips/:id/risk-assessments/latest", s.latestRiskAssessment)
		v1.GET("/trips/:id/risk-assessments/suggestion", s.suggestRiskInput)

		v1.GET("/trips/:id/checklists", s.checklists)
		v1.PUT("/trips/:id/checklists/:namespace/:code", s.setChecklistItem)

		v1.POST("/trips/:id/crew", s.assignCrew)
		v1.GET("/trips/:id/crew", s.listCrew)
		v1.POST("/trips/:id/crew/response", s.respondAssignment)
		v1.DELETE("/trips/:id/crew/:guideId", s.removeCrew)

		v1.GET("/trips/:id/manifest", s.manifest)
		v1.POST("/trips/:id/manifest", s.addPassenger)
		v1.POST("/trips/:id/manifest/:passengerId/status", s.updatePassengerStatus)

		v1.PUT("/trips/:id/documentation", s.setDocumentation)
		v1.PUT("/trips/:id/signals", s.recordOpsSignals)
	}
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// actor resolves the caller identity from headers. An unknown role label
// is a client error, not an anonymous caller.
func (s *Server) actor(c *gin.Context) (service.Actor, bool) {
	role, ok := authz.NormalizeRole(c.GetHeader(HeaderActorRole))
	if !ok {
		respondError(c, apperrors.WithMetadata(
			apperrors.CodeInvalidRequest,
			"unrecognized actor role header",
			map[string]string{"Role": c.GetHeader(HeaderActorRole)},
		))
		return service.Actor{}, false
	}
	actorID := c.GetHeader(HeaderActorID)
	c.Request = c.Request.WithContext(requestctx.WithActorID(c.Request.Context(), actorID))
	return service.Actor{ID: actorID, Role: role}, true
}

// respondError maps a domain error onto an HTTP response.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	body := gin.H{
		"code":    string(code),
		"message": err.Error(),
	}
	if metadata := apperrors.GetMetadata(err); len(metadata) > 0 {
		body["metadata"] = metadata
	}
	c.AbortWithStatusJSON(apperrors.StatusFor(err), gin.H{"error": body})
}

// badRequest reports a malformed payload.
func badRequest(c *gin.Context, message string, cause error) {
	respondError(c, apperrors.Wrap(apperrors.CodeInvalidRequest, message, cause))
}
