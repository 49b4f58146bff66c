package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anchorline/tripgate/internal/collaborators/local"
	"github.com/anchorline/tripgate/internal/testkit/tripfakes"
	"github.com/anchorline/tripgate/internal/trip/service"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := tripfakes.NewStore()
	directory := local.NewDirectory(store)
	svc := service.New(
		service.Stores{Trips: store, Crew: store, Manifest: store, Checklists: store, Risks: store, OpsSignals: store},
		service.Collaborators{
			Certifications: directory,
			Approvals:      directory,
			Attendance:     directory,
			Handover:       directory,
			Tasks:          directory,
			Expenses:       directory,
		},
		nil, nil,
		service.Config{
			Now:   tripfakes.FixedClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)),
			NewID: tripfakes.SequentialIDs(),
		},
	)
	server := httptest.NewServer(NewServer(svc).Handler())
	t.Cleanup(server.Close)
	return &testAPI{t: t, server: server}
}

// do sends a JSON request with the given actor headers and decodes the
// response body into out when provided.
func (a *testAPI) do(method, path, actorID, actorRole string, payload, out any) *http.Response {
	a.t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(a.t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &body)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set(HeaderActorID, actorID)
	}
	if actorRole != "" {
		req.Header.Set(HeaderActorRole, actorRole)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *testAPI) createTrip(passengerTracking, logisticsTracking bool) string {
	a.t.Helper()
	var created struct {
		ID    string `json:"id"`
		Phase string `json:"phase"`
	}
	resp := a.do(http.MethodPost, "/v1/trips", "", "", map[string]any{
		"name":               "Harbor Sunset Cruise",
		"departure_date":     "2026-06-08T17:00:00Z",
		"package_code":       "day-cruise",
		"passenger_tracking": passengerTracking,
		"logistics_tracking": logisticsTracking,
	}, &created)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	require.Equal(a.t, "pre_trip", created.Phase)
	return created.ID
}

func (a *testAPI) confirmLead(tripID string) {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/v1/trips/"+tripID+"/crew", "ops-1", "ops_admin",
		map[string]any{"guide_id": "guide-lead", "role": "lead"}, nil)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	resp = a.do(http.MethodPost, "/v1/trips/"+tripID+"/crew/response", "guide-lead", "",
		map[string]any{"accept": true}, nil)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
}

func (a *testAPI) makeReady(tripID string) {
	a.t.Helper()
	resp := a.do(http.MethodPut, "/v1/trips/"+tripID+"/signals", "ops-1", "ops_admin", map[string]any{
		"attendance_checked_in": true,
		"crew_certified":        true,
		"ops_approved":          true,
	}, nil)
	require.Equal(a.t, http.StatusNoContent, resp.StatusCode)

	items := map[string][]string{
		"facility":  {"dock_clear", "fuel_topped", "first_aid_onboard"},
		"equipment": {"life_jackets", "radio_check", "flares_inspected"},
	}
	for namespace, codes := range items {
		for _, code := range codes {
			path := fmt.Sprintf("/v1/trips/%s/checklists/%s/%s", tripID, namespace, code)
			resp := a.do(http.MethodPut, path, "guide-lead", "", map[string]any{"checked": true}, nil)
			require.Equal(a.t, http.StatusNoContent, resp.StatusCode)
		}
	}

	resp = a.do(http.MethodPost, "/v1/trips/"+tripID+"/risk-assessments", "guide-lead", "", map[string]any{
		"weather":            "clear",
		"crew_ready":         true,
		"equipment_complete": true,
	}, nil)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
}

func TestCreateAndGetTrip(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)

	var trip struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Checklists struct {
			Facility []struct {
				Code string `json:"code"`
			} `json:"facility"`
		} `json:"checklists"`
	}
	resp := api.do(http.MethodGet, "/v1/trips/"+tripID, "", "", nil, &trip)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Harbor Sunset Cruise", trip.Name)
	require.Len(t, trip.Checklists.Facility, 4)
}

func TestGetMissingTrip(t *testing.T) {
	api := newTestAPI(t)
	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp := api.do(http.MethodGet, "/v1/trips/nope", "", "", nil, &errBody)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", errBody.Error.Code)
}

func TestCreateTripValidation(t *testing.T) {
	api := newTestAPI(t)
	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp := api.do(http.MethodPost, "/v1/trips", "", "", map[string]any{
		"name":           "   ",
		"departure_date": "2026-06-08T17:00:00Z",
	}, &errBody)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "TRIP_NAME_EMPTY", errBody.Error.Code)
}

func TestStartLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)
	api.confirmLead(tripID)

	var readinessBody struct {
		CanStart     bool     `json:"can_start"`
		MissingItems []string `json:"missing_items"`
	}
	resp := api.do(http.MethodGet, "/v1/trips/"+tripID+"/readiness", "", "", nil, &readinessBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, readinessBody.CanStart)
	require.NotEmpty(t, readinessBody.MissingItems)

	// A blocked gate refuses the transition with the reasons attached.
	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-lead", "", nil, &errBody)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "READINESS_BLOCKED", errBody.Error.Code)

	api.makeReady(tripID)

	var started struct {
		Phase string `json:"phase"`
	}
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-lead", "", nil, &started)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "during_trip", started.Phase)
}

func TestStartDeniedForSupport(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)
	api.confirmLead(tripID)
	api.makeReady(tripID)

	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/crew", "ops-1", "ops_admin",
		map[string]any{"guide_id": "guide-support", "role": "support"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/crew/response", "guide-support", "",
		map[string]any{"accept": true}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-support", "", nil, &errBody)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "CREW_ACTION_NOT_ALLOWED", errBody.Error.Code)
}

func TestEndRequiresConfirm(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)
	api.confirmLead(tripID)
	api.makeReady(tripID)
	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-lead", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/end", "guide-lead", "",
		map[string]any{"confirm": false}, &errBody)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_REQUEST", errBody.Error.Code)
}

func TestEndLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)
	api.confirmLead(tripID)
	api.makeReady(tripID)
	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-lead", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodPut, "/v1/trips/"+tripID+"/documentation", "guide-lead", "",
		map[string]any{"url": "https://docs.example.com/trip"}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodPut, "/v1/trips/"+tripID+"/signals", "ops-1", "ops_admin", map[string]any{
		"attendance_checked_in":  true,
		"attendance_checked_out": true,
		"crew_certified":         true,
		"ops_approved":           true,
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var completionBody struct {
		CanComplete bool `json:"can_complete"`
		Progress    int  `json:"progress"`
	}
	resp = api.do(http.MethodGet, "/v1/trips/"+tripID+"/completion", "", "", nil, &completionBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, completionBody.CanComplete)
	require.Equal(t, 100, completionBody.Progress)

	var ended struct {
		Phase       string  `json:"phase"`
		CompletedAt *string `json:"completed_at"`
	}
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/end", "guide-lead", "",
		map[string]any{"confirm": true}, &ended)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "post_trip", ended.Phase)
	require.NotNil(t, ended.CompletedAt)
}

func TestManifestMaskingOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(true, false)
	api.confirmLead(tripID)

	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/crew", "ops-1", "ops_admin",
		map[string]any{"guide_id": "guide-support", "role": "support"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/crew/response", "guide-support", "",
		map[string]any{"accept": true}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodPost, "/v1/trips/"+tripID+"/manifest", "ops-1", "ops_admin",
		map[string]any{"full_name": "Ada Reyes", "phone": "+1 555 0100", "notes": "window seat"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var manifest struct {
		Passengers []struct {
			FullName string `json:"full_name"`
			Masked   bool   `json:"masked"`
		} `json:"passengers"`
	}
	resp = api.do(http.MethodGet, "/v1/trips/"+tripID+"/manifest", "guide-support", "", nil, &manifest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, manifest.Passengers, 1)
	require.True(t, manifest.Passengers[0].Masked)
	require.Equal(t, "A. R.", manifest.Passengers[0].FullName)

	resp = api.do(http.MethodGet, "/v1/trips/"+tripID+"/manifest", "guide-lead", "", nil, &manifest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, manifest.Passengers[0].Masked)
	require.Equal(t, "Ada Reyes", manifest.Passengers[0].FullName)
}

func TestUnknownRoleHeaderRejected(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)

	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "guide-lead", "captain", nil, &errBody)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_REQUEST", errBody.Error.Code)
}

func TestOpsAdminCannotClaimLeadViaHeader(t *testing.T) {
	api := newTestAPI(t)
	tripID := api.createTrip(false, false)
	api.confirmLead(tripID)
	api.makeReady(tripID)

	// A lead claim in the header means nothing without a confirmed
	// assignment for that guide.
	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp := api.do(http.MethodPost, "/v1/trips/"+tripID+"/start", "someone-else", "lead", nil, &errBody)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "CREW_ACTION_NOT_ALLOWED", errBody.Error.Code)
}
