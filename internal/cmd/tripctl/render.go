package tripctl

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

type tripSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phase         string    `json:"phase"`
	DepartureDate time.Time `json:"departure_date"`
}

type tripsPayload struct {
	Trips []tripSummary `json:"trips"`
}

type readinessPayload struct {
	CanStart bool `json:"can_start"`
	Checks   []struct {
		Check  string `json:"check"`
		Passed bool   `json:"passed"`
		Reason string `json:"reason"`
	} `json:"checks"`
}

type completionPayload struct {
	CanComplete bool `json:"can_complete"`
	Progress    int  `json:"progress"`
	Checks      []struct {
		Check      string `json:"check"`
		Required   bool   `json:"required"`
		Applicable bool   `json:"applicable"`
		Passed     bool   `json:"passed"`
		Reason     string `json:"reason"`
	} `json:"checks"`
	Warnings []string `json:"warnings"`
}

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	dimText  = color.New(color.Faint).SprintFunc()
)

func renderTrips(out io.Writer, trips []tripSummary) {
	if len(trips) == 0 {
		fmt.Fprintln(out, "no trips")
		return
	}
	for _, trip := range trips {
		fmt.Fprintf(out, "%s  %-24s %-18s %s\n",
			trip.ID, trip.Name, trip.Phase, trip.DepartureDate.Format("2006-01-02 15:04"))
	}
}

func renderReadiness(out io.Writer, tripID string, payload readinessPayload) {
	fmt.Fprintf(out, "readiness for trip %s\n", tripID)
	for _, check := range payload.Checks {
		if check.Passed {
			fmt.Fprintf(out, "  %s %s\n", passMark("ok"), check.Check)
			continue
		}
		fmt.Fprintf(out, "  %s %s: %s\n", failMark("!!"), check.Check, check.Reason)
	}
	if payload.CanStart {
		fmt.Fprintln(out, passMark("ready to start"))
	} else {
		fmt.Fprintln(out, failMark("not ready"))
	}
}

func renderCompletion(out io.Writer, tripID string, payload completionPayload) {
	fmt.Fprintf(out, "completion for trip %s (%d%%)\n", tripID, payload.Progress)
	for _, check := range payload.Checks {
		switch {
		case check.Required && !check.Applicable:
			fmt.Fprintf(out, "  %s %s\n", dimText("--"), check.Check)
		case check.Passed:
			fmt.Fprintf(out, "  %s %s\n", passMark("ok"), check.Check)
		case check.Required:
			fmt.Fprintf(out, "  %s %s: %s\n", failMark("!!"), check.Check, check.Reason)
		default:
			fmt.Fprintf(out, "  %s %s\n", dimText("--"), check.Check)
		}
	}
	for _, warning := range payload.Warnings {
		fmt.Fprintf(out, "  %s %s\n", warnText("warning:"), warning)
	}
	if payload.CanComplete {
		fmt.Fprintln(out, passMark("ready to complete"))
	} else {
		fmt.Fprintln(out, failMark("not ready to complete"))
	}
}
