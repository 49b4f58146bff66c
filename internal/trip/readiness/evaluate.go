package readiness

import (
	"fmt"
	"time"

	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// Check identifies one readiness sub-check. The declaration order below is
// the evaluation and presentation order.
type Check string

const (
	CheckAttendance         Check = "attendance"
	CheckFacilityChecklist  Check = "facility_checklist"
	CheckEquipmentChecklist Check = "equipment_checklist"
	CheckRiskAssessment     Check = "risk_assessment"
	CheckCertifications     Check = "certifications"
	CheckAdminApproval      Check = "admin_approval"
)

// Signal is a boolean sub-check input gathered from a collaborator.
// Unavailable marks a collaborator that failed or timed out; the sub-check
// then fails closed with an explanatory reason instead of aborting the
// whole evaluation.
type Signal struct {
	OK          bool
	Unavailable bool
}

// RiskSignal is the latest-assessment input to the risk sub-check.
type RiskSignal struct {
	Exists  bool
	Score   int
	Blocked bool
}

// Snapshot carries every sub-check input for one evaluation.
type Snapshot struct {
	Attendance     Signal
	Facility       domain.ChecklistProgress
	Equipment      domain.ChecklistProgress
	Risk           RiskSignal
	Certifications Signal
	AdminApproval  Signal
}

// CheckResult reports one sub-check outcome. Reason is set only on failure.
type CheckResult struct {
	Check  Check
	Passed bool
	Reason string
}

// Status is the computed readiness decision. It is derived on demand and
// never persisted.
type Status struct {
	CanStart     bool
	Checks       []CheckResult
	MissingItems []string
	EvaluatedAt  time.Time
}

// Evaluate derives the can-start decision from a snapshot.
//
// CanStart is true iff every sub-check passes; there is no partial start.
// A blocked risk score fails its sub-check no matter what the remaining
// snapshot says.
func Evaluate(snapshot Snapshot, now func() time.Time) Status {
	if now == nil {
		now = time.Now
	}

	checks := []CheckResult{
		checkSignal(CheckAttendance, snapshot.Attendance,
			"crew attendance has not been checked in",
			"attendance records are unavailable"),
		checkChecklist(CheckFacilityChecklist, "facility", snapshot.Facility),
		checkChecklist(CheckEquipmentChecklist, "equipment", snapshot.Equipment),
		checkRisk(snapshot.Risk),
		checkSignal(CheckCertifications, snapshot.Certifications,
			"crew certifications are not valid",
			"the certification directory is unavailable"),
		checkSignal(CheckAdminApproval, snapshot.AdminApproval,
			"operations approval is pending",
			"the approval log is unavailable"),
	}

	status := Status{
		CanStart:    true,
		Checks:      checks,
		EvaluatedAt: now().UTC(),
	}
	for _, result := range checks {
		if result.Passed {
			continue
		}
		status.CanStart = false
		status.MissingItems = append(status.MissingItems, result.Reason)
	}
	return status
}

// checkSignal evaluates a plain boolean collaborator signal.
func checkSignal(check Check, signal Signal, failReason, unavailableReason string) CheckResult {
	if signal.Unavailable {
		return CheckResult{Check: check, Reason: unavailableReason}
	}
	if !signal.OK {
		return CheckResult{Check: check, Reason: failReason}
	}
	return CheckResult{Check: check, Passed: true}
}

// checkChecklist evaluates one checklist namespace against its snapshot.
func checkChecklist(check Check, label string, progress domain.ChecklistProgress) CheckResult {
	if progress.Complete() {
		return CheckResult{Check: check, Passed: true}
	}
	return CheckResult{
		Check:  check,
		Reason: fmt.Sprintf("%s checklist incomplete (%d/%d items checked)", label, progress.Checked, progress.Total),
	}
}

// checkRisk requires an assessment to exist and its latest score to be
// under the block threshold.
func checkRisk(signal RiskSignal) CheckResult {
	if !signal.Exists {
		return CheckResult{Check: CheckRiskAssessment, Reason: "no risk assessment has been recorded"}
	}
	if signal.Blocked {
		return CheckResult{
			Check: CheckRiskAssessment,
			Reason: fmt.Sprintf("latest risk score %d exceeds the departure block threshold %d",
				signal.Score, risk.BlockThreshold),
		}
	}
	return CheckResult{Check: CheckRiskAssessment, Passed: true}
}
