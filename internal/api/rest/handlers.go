package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/completion"
	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/readiness"
	"github.com/anchorline/tripgate/internal/trip/risk"
	"github.com/anchorline/tripgate/internal/trip/service"
)

type createTripRequest struct {
	Name              string    `json:"name"`
	DepartureDate     time.Time `json:"departure_date"`
	PackageCode       string    `json:"package_code"`
	PassengerTracking bool      `json:"passenger_tracking"`
	LogisticsTracking bool      `json:"logistics_tracking"`
}

type tripResponse struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	DepartureDate     time.Time                `json:"departure_date"`
	Phase             string                   `json:"phase"`
	PackageCode       string                   `json:"package_code,omitempty"`
	PassengerTracking bool                     `json:"passenger_tracking"`
	LogisticsTracking bool                     `json:"logistics_tracking"`
	DocumentationURL  string                   `json:"documentation_url,omitempty"`
	NeedsReassignment bool                     `json:"needs_reassignment"`
	Checklists        domain.ChecklistSnapshot `json:"checklists"`
	CompletedAt       *time.Time               `json:"completed_at,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func toTripResponse(trip domain.Trip) tripResponse {
	return tripResponse{
		ID:                trip.ID,
		Name:              trip.Name,
		DepartureDate:     trip.DepartureDate,
		Phase:             string(trip.Phase),
		PackageCode:       trip.PackageCode,
		PassengerTracking: trip.PassengerTracking,
		LogisticsTracking: trip.LogisticsTracking,
		DocumentationURL:  trip.DocumentationURL,
		NeedsReassignment: trip.NeedsReassignment,
		Checklists:        trip.Checklists,
		CompletedAt:       trip.CompletedAt,
		CreatedAt:         trip.CreatedAt,
		UpdatedAt:         trip.UpdatedAt,
	}
}

func (s *Server) createTrip(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid trip payload", err)
		return
	}
	trip, err := s.svc.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		Name:              req.Name,
		DepartureDate:     req.DepartureDate,
		PackageCode:       req.PackageCode,
		PassengerTracking: req.PassengerTracking,
		LogisticsTracking: req.LogisticsTracking,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTripResponse(trip))
}

func (s *Server) listTrips(c *gin.Context) {
	trips, err := s.svc.ListTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]tripResponse, 0, len(trips))
	for _, trip := range trips {
		responses = append(responses, toTripResponse(trip))
	}
	c.JSON(http.StatusOK, gin.H{"trips": responses})
}

func (s *Server) getTrip(c *gin.Context) {
	trip, err := s.svc.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(trip))
}

type checkResultResponse struct {
	Check  string `json:"check"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

type readinessResponse struct {
	CanStart     bool                  `json:"can_start"`
	Checks       []checkResultResponse `json:"checks"`
	MissingItems []string              `json:"missing_items,omitempty"`
	EvaluatedAt  time.Time             `json:"evaluated_at"`
}

func toReadinessResponse(status readiness.Status) readinessResponse {
	resp := readinessResponse{
		CanStart:     status.CanStart,
		Checks:       make([]checkResultResponse, 0, len(status.Checks)),
		MissingItems: status.MissingItems,
		EvaluatedAt:  status.EvaluatedAt,
	}
	for _, check := range status.Checks {
		resp.Checks = append(resp.Checks, checkResultResponse{
			Check:  string(check.Check),
			Passed: check.Passed,
			Reason: check.Reason,
		})
	}
	return resp
}

func (s *Server) readiness(c *gin.Context) {
	status, err := s.svc.Readiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReadinessResponse(status))
}

type completionCheckResponse struct {
	Check      string `json:"check"`
	Required   bool   `json:"required"`
	Applicable bool   `json:"applicable"`
	Passed     bool   `json:"passed"`
	Reason     string `json:"reason,omitempty"`
}

type completionResponse struct {
	CanComplete  bool                      `json:"can_complete"`
	Progress     int                       `json:"progress"`
	Checks       []completionCheckResponse `json:"checks"`
	MissingItems []string                  `json:"missing_items,omitempty"`
	Warnings     []string                  `json:"warnings,omitempty"`
	EvaluatedAt  time.Time                 `json:"evaluated_at"`
}

func toCompletionResponse(status completion.Status) completionResponse {
	resp := completionResponse{
		CanComplete:  status.CanComplete,
		Progress:     status.Progress,
		Checks:       make([]completionCheckResponse, 0, len(status.Checks)),
		MissingItems: status.MissingItems,
		Warnings:     status.Warnings,
		EvaluatedAt:  status.EvaluatedAt,
	}
	for _, check := range status.Checks {
		resp.Checks = append(resp.Checks, completionCheckResponse{
			Check:      string(check.Check),
			Required:   check.Required,
			Applicable: check.Applicable,
			Passed:     check.Passed,
			Reason:     check.Reason,
		})
	}
	return resp
}

func (s *Server) completion(c *gin.Context) {
	status, err := s.svc.Completion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompletionResponse(status))
}

func (s *Server) startTrip(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	trip, err := s.svc.StartTrip(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(trip))
}

type endTripRequest struct {
	Confirm bool `json:"confirm"`
}

// endTrip requires an explicit confirm flag: ending a trip is terminal and
// must never happen from a double-submitted form.
func (s *Server) endTrip(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req endTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid end-trip payload", err)
		return
	}
	if !req.Confirm {
		badRequest(c, "ending a trip requires confirm: true", nil)
		return
	}
	trip, err := s.svc.EndTrip(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(trip))
}

type riskInputRequest struct {
	WaveHeightM       *float64 `json:"wave_height_m"`
	WindSpeedKmh      *float64 `json:"wind_speed_kmh"`
	Weather           string   `json:"weather"`
	CrewReady         bool     `json:"crew_ready"`
	EquipmentComplete bool     `json:"equipment_complete"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

func (r riskInputRequest) toInput() risk.Input {
	weatherCondition := risk.WeatherCondition(r.Weather)
	if normalized, ok := risk.NormalizeWeatherCondition(r.Weather); ok {
		weatherCondition = normalized
	}
	return risk.Input{
		WaveHeightM:       r.WaveHeightM,
		WindSpeedKmh:      r.WindSpeedKmh,
		Weather:           weatherCondition,
		CrewReady:         r.CrewReady,
		EquipmentComplete: r.EquipmentComplete,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
	}
}

type riskInputResponse struct {
	WaveHeightM       *float64 `json:"wave_height_m,omitempty"`
	WindSpeedKmh      *float64 `json:"wind_speed_kmh,omitempty"`
	Weather           string   `json:"weather,omitempty"`
	CrewReady         bool     `json:"crew_ready"`
	EquipmentComplete bool     `json:"equipment_complete"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

func toRiskInputResponse(input risk.Input) riskInputResponse {
	return riskInputResponse{
		WaveHeightM:       input.WaveHeightM,
		WindSpeedKmh:      input.WindSpeedKmh,
		Weather:           string(input.Weather),
		CrewReady:         input.CrewReady,
		EquipmentComplete: input.EquipmentComplete,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
	}
}

type assessmentResponse struct {
	ID        string            `json:"id"`
	TripID    string            `json:"trip_id"`
	Input     riskInputResponse `json:"input"`
	Score     int               `json:"score"`
	Level     string            `json:"level"`
	Blocked   bool              `json:"blocked"`
	CreatedAt time.Time         `json:"created_at"`
}

func toAssessmentResponse(assessment risk.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:        assessment.ID,
		TripID:    assessment.TripID,
		Input:     toRiskInputResponse(assessment.Input),
		Score:     assessment.Result.Score,
		Level:     string(assessment.Result.Level),
		Blocked:   assessment.Result.Blocked,
		CreatedAt: assessment.CreatedAt,
	}
}

func (s *Server) submitRiskAssessment(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req riskInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid risk assessment payload", err)
		return
	}
	assessment, err := s.svc.SubmitRiskAssessment(c.Request.Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssessmentResponse(assessment))
}

func (s *Server) riskHistory(c *gin.Context) {
	history, err := s.svc.RiskHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]assessmentResponse, 0, len(history))
	for _, assessment := range history {
		responses = append(responses, toAssessmentResponse(assessment))
	}
	c.JSON(http.StatusOK, gin.H{"assessments": responses})
}

func (s *Server) latestRiskAssessment(c *gin.Context) {
	assessment, err := s.svc.LatestRiskAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssessmentResponse(assessment))
}

func (s *Server) suggestRiskInput(c *gin.Context) {
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		badRequest(c, "latitude query parameter must be a number", err)
		return
	}
	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		badRequest(c, "longitude query parameter must be a number", err)
		return
	}
	input, err := s.svc.SuggestRiskInput(c.Request.Context(), c.Param("id"), latitude, longitude)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRiskInputResponse(input))
}

type checklistItemResponse struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Included bool   `json:"included"`
	Checked  bool   `json:"checked"`
}

type checklistResponse struct {
	Namespace string                  `json:"namespace"`
	Items     []checklistItemResponse `json:"items"`
	Checked   int                     `json:"checked"`
	Total     int                     `json:"total"`
}

func (s *Server) checklists(c *gin.Context) {
	views, err := s.svc.Checklists(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]checklistResponse, 0, len(views))
	for _, view := range views {
		resp := checklistResponse{
			Namespace: string(view.Namespace),
			Items:     make([]checklistItemResponse, 0, len(view.Items)),
			Checked:   view.Progress.Checked,
			Total:     view.Progress.Total,
		}
		for _, item := range view.Items {
			resp.Items = append(resp.Items, checklistItemResponse{
				Code:     item.Code,
				Label:    item.Label,
				Included: item.Included,
				Checked:  item.Checked,
			})
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, gin.H{"checklists": responses})
}

type setChecklistItemRequest struct {
	Checked bool `json:"checked"`
}

func (s *Server) setChecklistItem(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req setChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid checklist payload", err)
		return
	}
	err := s.svc.SetChecklistItem(c.Request.Context(), actor, c.Param("id"), c.Param("namespace"), c.Param("code"), req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type assignCrewRequest struct {
	GuideID string `json:"guide_id"`
	Role    string `json:"role"`
}

type assignmentResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	GuideID   string    `json:"guide_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAssignmentResponse(assignment domain.CrewAssignment) assignmentResponse {
	return assignmentResponse{
		ID:        assignment.ID,
		TripID:    assignment.TripID,
		GuideID:   assignment.GuideID,
		Role:      string(assignment.Role),
		Status:    string(assignment.Status),
		CreatedAt: assignment.CreatedAt,
		UpdatedAt: assignment.UpdatedAt,
	}
}

func (s *Server) assignCrew(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req assignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid crew payload", err)
		return
	}
	assignment, err := s.svc.AssignCrew(c.Request.Context(), actor, c.Param("id"), req.GuideID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssignmentResponse(assignment))
}

func (s *Server) listCrew(c *gin.Context) {
	assignments, err := s.svc.ListCrew(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]assignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, toAssignmentResponse(assignment))
	}
	c.JSON(http.StatusOK, gin.H{"crew": responses})
}

type respondAssignmentRequest struct {
	Accept bool `json:"accept"`
}

func (s *Server) respondAssignment(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req respondAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid assignment response payload", err)
		return
	}
	assignment, err := s.svc.RespondAssignment(c.Request.Context(), actor, c.Param("id"), req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssignmentResponse(assignment))
}

func (s *Server) removeCrew(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	if err := s.svc.RemoveCrew(c.Request.Context(), actor, c.Param("id"), c.Param("guideId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addPassengerRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

type passengerResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status"`
	ManifestOrder int    `json:"manifest_order"`
	Masked        bool   `json:"masked"`
}

func (s *Server) manifest(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	views, err := s.svc.Manifest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]passengerResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, passengerResponse{
			ID:            view.ID,
			FullName:      view.FullName,
			Phone:         view.Phone,
			Notes:         view.Notes,
			Status:        string(view.Status),
			ManifestOrder: view.ManifestOrder,
			Masked:        view.Masked,
		})
	}
	c.JSON(http.StatusOK, gin.H{"passengers": responses})
}

func (s *Server) addPassenger(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req addPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid passenger payload", err)
		return
	}
	passenger, err := s.svc.AddPassenger(c.Request.Context(), actor, c.Param("id"), req.FullName, req.Phone, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, passengerResponse{
		ID:            passenger.ID,
		FullName:      passenger.FullName,
		Phone:         passenger.Phone,
		Notes:         passenger.Notes,
		Status:        string(passenger.Status),
		ManifestOrder: passenger.ManifestOrder,
	})
}

type updatePassengerStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updatePassengerStatus(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req updatePassengerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid passenger status payload", err)
		return
	}
	passenger, err := s.svc.UpdatePassengerStatus(c.Request.Context(), actor, c.Param("id"), c.Param("passengerId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengerResponse{
		ID:            passenger.ID,
		FullName:      passenger.FullName,
		Phone:         passenger.Phone,
		Notes:         passenger.Notes,
		Status:        string(passenger.Status),
		ManifestOrder: passenger.ManifestOrder,
	})
}

type setDocumentationRequest struct {
	URL string `json:"url"`
}

func (s *Server) setDocumentation(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req setDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid documentation payload", err)
		return
	}
	if err := s.svc.SetDocumentationURL(c.Request.Context(), actor, c.Param("id"), req.URL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type opsSignalsRequest struct {
	AttendanceCheckedIn    bool `json:"attendance_checked_in"`
	AttendanceCheckedOut   bool `json:"attendance_checked_out"`
	CrewCertified          bool `json:"crew_certified"`
	OpsApproved            bool `json:"ops_approved"`
	HandoverRecorded       bool `json:"handover_recorded"`
	HandoverCompleted      bool `json:"handover_completed"`
	TasksRequiredTotal     int  `json:"tasks_required_total"`
	TasksRequiredCompleted int  `json:"tasks_required_completed"`
	ExpensesSubmitted      bool `json:"expenses_submitted"`
	PaymentSplitCalculated bool `json:"payment_split_calculated"`
}

func (s *Server) recordOpsSignals(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}
	var req opsSignalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid signals payload", err)
		return
	}
	err := s.svc.RecordOpsSignals(c.Request.Context(), actor, storage.OpsSignals{
		TripID:                 c.Param("id"),
		AttendanceCheckedIn:    req.AttendanceCheckedIn,
		AttendanceCheckedOut:   req.AttendanceCheckedOut,
		CrewCertified:          req.CrewCertified,
		OpsApproved:            req.OpsApproved,
		HandoverRecorded:       req.HandoverRecorded,
		HandoverCompleted:      req.HandoverCompleted,
		TasksRequiredTotal:     req.TasksRequiredTotal,
		TasksRequiredCompleted: req.TasksRequiredCompleted,
		ExpensesSubmitted:      req.ExpensesSubmitted,
		PaymentSplitCalculated: req.PaymentSplitCalculated,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
