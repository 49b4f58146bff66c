package completion

import (
	"fmt"
	"strings"
	"time"
)

// Check identifies one completion sub-check. The declaration order below is
// the evaluation and presentation order; required checks come first.
type Check string

const (
	CheckManifest      Check = "manifest"
	CheckDocumentation Check = "documentation"
	CheckHandover      Check = "handover"
	CheckAttendance    Check = "attendance"
	CheckTasks         Check = "tasks"
	CheckExpenses      Check = "expenses"
	CheckPaymentSplit  Check = "payment_split"
)

// ManifestSignal reports how much of the manifest has returned.
// Applicable is false when the trip type does not track passengers.
type ManifestSignal struct {
	Applicable bool
	Returned   int
	Total      int
}

// HandoverSignal reports the inbound logistics handover.
// Applicable is false when logistics tracking is disabled for the trip;
// Unavailable marks a handover subsystem that returned no data, which
// degrades the sub-check to not-applicable instead of blocking forever.
type HandoverSignal struct {
	Applicable  bool
	Completed   bool
	Unavailable bool
}

// AttendanceSignal reports post-trip crew check-out.
type AttendanceSignal struct {
	CheckedOut  bool
	Unavailable bool
}

// TasksSignal reports required-task progress. Optional tasks never appear
// in either count.
type TasksSignal struct {
	RequiredCompleted int
	RequiredTotal     int
	Unavailable       bool
}

// SoftSignal is a non-blocking sub-check input.
type SoftSignal struct {
	OK          bool
	Unavailable bool
}

// Snapshot carries every sub-check input for one evaluation.
type Snapshot struct {
	Manifest         ManifestSignal
	DocumentationURL string
	Handover         HandoverSignal
	Attendance       AttendanceSignal
	Tasks            TasksSignal
	Expenses         SoftSignal
	PaymentSplit     SoftSignal
}

// CheckResult reports one sub-check outcome.
type CheckResult struct {
	Check      Check
	Required   bool
	Applicable bool
	Passed     bool
	Reason     string
}

// Status is the computed completion decision. It is derived on demand and
// never persisted.
type Status struct {
	CanComplete  bool
	Progress     int
	Checks       []CheckResult
	MissingItems []string
	Warnings     []string
	EvaluatedAt  time.Time
}

// Evaluate derives the can-complete decision from a snapshot.
//
// CanComplete is true iff every applicable required sub-check passes.
// Warnings never influence the decision. Progress counts only applicable
// required sub-checks in its denominator.
func Evaluate(snapshot Snapshot, now func() time.Time) Status {
	if now == nil {
		now = time.Now
	}

	checks := []CheckResult{
		checkManifest(snapshot.Manifest),
		checkDocumentation(snapshot.DocumentationURL),
		checkHandover(snapshot.Handover),
		checkAttendance(snapshot.Attendance),
		checkTasks(snapshot.Tasks),
		checkSoft(CheckExpenses, snapshot.Expenses, "trip expenses have not been submitted"),
		checkSoft(CheckPaymentSplit, snapshot.PaymentSplit, "the payment split has not been calculated"),
	}

	status := Status{
		CanComplete: true,
		Checks:      checks,
		EvaluatedAt: now().UTC(),
	}

	var applicableRequired, passedRequired int
	for _, result := range checks {
		if !result.Required {
			if !result.Passed && result.Applicable {
				status.Warnings = append(status.Warnings, result.Reason)
			}
			continue
		}
		if !result.Applicable {
			continue
		}
		applicableRequired++
		if result.Passed {
			passedRequired++
			continue
		}
		status.CanComplete = false
		status.MissingItems = append(status.MissingItems, result.Reason)
	}

	if applicableRequired > 0 {
		status.Progress = passedRequired * 100 / applicableRequired
	} else {
		status.Progress = 100
	}
	return status
}

// checkManifest requires every tracked passenger to have returned.
func checkManifest(signal ManifestSignal) CheckResult {
	result := CheckResult{Check: CheckManifest, Required: true, Applicable: signal.Applicable}
	if !signal.Applicable {
		return result
	}
	if signal.Returned >= signal.Total {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("manifest not fully returned (%d/%d passengers back)", signal.Returned, signal.Total)
	return result
}

// checkDocumentation requires a documentation reference to be recorded.
func checkDocumentation(url string) CheckResult {
	result := CheckResult{Check: CheckDocumentation, Required: true, Applicable: true}
	if strings.TrimSpace(url) != "" {
		result.Passed = true
		return result
	}
	result.Reason = "trip documentation has not been uploaded"
	return result
}

// checkHandover requires the inbound logistics handover when logistics
// tracking applies. An unavailable handover subsystem degrades to
// not-applicable so a missing collaborator cannot block completion forever.
func checkHandover(signal HandoverSignal) CheckResult {
	result := CheckResult{Check: CheckHandover, Required: true, Applicable: signal.Applicable}
	if !signal.Applicable || signal.Unavailable {
		result.Applicable = false
		return result
	}
	if signal.Completed {
		result.Passed = true
		return result
	}
	result.Reason = "the inbound logistics handover has not been completed"
	return result
}

// checkAttendance requires crew check-out. An unavailable attendance log
// fails closed: completion is conservative about crew still in the field.
func checkAttendance(signal AttendanceSignal) CheckResult {
	result := CheckResult{Check: CheckAttendance, Required: true, Applicable: true}
	if signal.Unavailable {
		result.Reason = "attendance records are unavailable"
		return result
	}
	if signal.CheckedOut {
		result.Passed = true
		return result
	}
	result.Reason = "crew attendance has not been checked out"
	return result
}

// checkTasks requires every required task to be completed.
func checkTasks(signal TasksSignal) CheckResult {
	result := CheckResult{Check: CheckTasks, Required: true, Applicable: true}
	if signal.Unavailable {
		result.Reason = "the task board is unavailable"
		return result
	}
	if signal.RequiredCompleted >= signal.RequiredTotal {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("required tasks incomplete (%d/%d done)", signal.RequiredCompleted, signal.RequiredTotal)
	return result
}

// checkSoft evaluates a warning-only sub-check. Unavailable soft signals
// stay silent: a warning about a collaborator outage helps nobody close
// out a trip.
func checkSoft(check Check, signal SoftSignal, reason string) CheckResult {
	result := CheckResult{Check: check, Applicable: !signal.Unavailable}
	if signal.OK {
		result.Passed = true
		return result
	}
	result.Reason = reason
	return result
}
