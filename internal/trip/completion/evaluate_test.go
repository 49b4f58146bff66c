package completion

import (
	"strings"
	"testing"
	"time"
)

func completeSnapshot() Snapshot {
	return Snapshot{
		Manifest:         ManifestSignal{Applicable: true, Returned: 5, Total: 5},
		DocumentationURL: "https://docs.example.com/trips/trip-1",
		Handover:         HandoverSignal{Applicable: true, Completed: true},
		Attendance:       AttendanceSignal{CheckedOut: true},
		Tasks:            TasksSignal{RequiredCompleted: 3, RequiredTotal: 3},
		Expenses:         SoftSignal{OK: true},
		PaymentSplit:     SoftSignal{OK: true},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)
}

func TestEvaluateAllRequiredPass(t *testing.T) {
	status := Evaluate(completeSnapshot(), fixedClock)
	if !status.CanComplete {
		t.Fatalf("expected can complete, missing: %v", status.MissingItems)
	}
	if status.Progress != 100 {
		t.Fatalf("expected 100%% progress, got %d", status.Progress)
	}
	if len(status.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", status.Warnings)
	}
}

func TestEvaluateManifestNotReturned(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Manifest = ManifestSignal{Applicable: true, Returned: 4, Total: 5}
	status := Evaluate(snapshot, fixedClock)
	if status.CanComplete {
		t.Fatal("expected manifest to block completion")
	}
	if len(status.MissingItems) != 1 || !strings.Contains(status.MissingItems[0], "manifest not fully returned (4/5") {
		t.Fatalf("expected manifest reason, got %v", status.MissingItems)
	}
	// Four of five applicable required checks pass.
	if status.Progress != 80 {
		t.Fatalf("expected 80%% progress, got %d", status.Progress)
	}
}

func TestEvaluateSoftChecksNeverBlock(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Expenses = SoftSignal{OK: false}
	snapshot.PaymentSplit = SoftSignal{OK: false}
	status := Evaluate(snapshot, fixedClock)
	if !status.CanComplete {
		t.Fatalf("expected soft checks not to block, missing: %v", status.MissingItems)
	}
	if len(status.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", status.Warnings)
	}
	if len(status.MissingItems) != 0 {
		t.Fatalf("expected soft reasons to stay out of missing items, got %v", status.MissingItems)
	}
	if status.Progress != 100 {
		t.Fatalf("expected progress unaffected by warnings, got %d", status.Progress)
	}
}

func TestEvaluateNotApplicableExcludedFromProgress(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Manifest = ManifestSignal{Applicable: false}
	snapshot.Handover = HandoverSignal{Applicable: false}
	snapshot.DocumentationURL = ""
	status := Evaluate(snapshot, fixedClock)
	if status.CanComplete {
		t.Fatal("expected missing documentation to block")
	}
	// Three applicable required checks remain; two pass.
	if status.Progress != 66 {
		t.Fatalf("expected 66%% progress, got %d", status.Progress)
	}
	for _, result := range status.Checks {
		if result.Check == CheckManifest && result.Applicable {
			t.Fatal("expected manifest to be not-applicable")
		}
	}
}

func TestEvaluateHandoverUnavailableDegradesToNotApplicable(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Handover = HandoverSignal{Applicable: true, Unavailable: true}
	status := Evaluate(snapshot, fixedClock)
	if !status.CanComplete {
		t.Fatalf("expected unavailable handover not to block, missing: %v", status.MissingItems)
	}
	if status.Progress != 100 {
		t.Fatalf("expected handover out of the denominator, got %d", status.Progress)
	}
}

func TestEvaluateAttendanceUnavailableFailsClosed(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Attendance = AttendanceSignal{Unavailable: true}
	status := Evaluate(snapshot, fixedClock)
	if status.CanComplete {
		t.Fatal("expected unavailable attendance to fail closed")
	}
	if len(status.MissingItems) != 1 || !strings.Contains(status.MissingItems[0], "unavailable") {
		t.Fatalf("expected unavailable reason, got %v", status.MissingItems)
	}
}

func TestEvaluateRequiredTasks(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Tasks = TasksSignal{RequiredCompleted: 1, RequiredTotal: 4}
	status := Evaluate(snapshot, fixedClock)
	if status.CanComplete {
		t.Fatal("expected incomplete required tasks to block")
	}
	if !strings.Contains(status.MissingItems[0], "required tasks incomplete (1/4") {
		t.Fatalf("expected task reason, got %v", status.MissingItems)
	}
}

func TestEvaluateNoRequiredTasksTriviallyPasses(t *testing.T) {
	snapshot := completeSnapshot()
	snapshot.Tasks = TasksSignal{}
	status := Evaluate(snapshot, fixedClock)
	if !status.CanComplete {
		t.Fatalf("expected zero required tasks to pass, missing: %v", status.MissingItems)
	}
}

func TestEvaluateToggleSoftCheckNeverChangesDecision(t *testing.T) {
	blocked := completeSnapshot()
	blocked.DocumentationURL = ""

	for _, submitted := range []bool{true, false} {
		snapshot := blocked
		snapshot.Expenses = SoftSignal{OK: submitted}
		status := Evaluate(snapshot, fixedClock)
		if status.CanComplete {
			t.Fatal("expected documentation to keep blocking")
		}
	}

	open := completeSnapshot()
	for _, submitted := range []bool{true, false} {
		snapshot := open
		snapshot.Expenses = SoftSignal{OK: submitted}
		status := Evaluate(snapshot, fixedClock)
		if !status.CanComplete {
			t.Fatal("expected expenses to never block")
		}
	}
}

func TestEvaluateCheckOrderIsStable(t *testing.T) {
	status := Evaluate(Snapshot{Manifest: ManifestSignal{Applicable: true, Total: 1}}, fixedClock)
	wantOrder := []Check{
		CheckManifest,
		CheckDocumentation,
		CheckHandover,
		CheckAttendance,
		CheckTasks,
		CheckExpenses,
		CheckPaymentSplit,
	}
	if len(status.Checks) != len(wantOrder) {
		t.Fatalf("expected %d checks, got %d", len(wantOrder), len(status.Checks))
	}
	for i, want := range wantOrder {
		if status.Checks[i].Check != want {
			t.Fatalf("expected check %d to be %s, got %s", i, want, status.Checks[i].Check)
		}
	}
}
