package harness

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one probe.
type Status string

const (
	StatusPending Status = "pending"
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

func (s Status) rank() int {
	switch s {
	case StatusFail:
		return 3
	case StatusWarning:
		return 2
	case StatusPass:
		return 1
	default:
		return 0
	}
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Result is the record of one probe.
type Result struct {
	Test     string         `json:"test" yaml:"test"`
	Status   Status         `json:"status" yaml:"status"`
	Message  string         `json:"message" yaml:"message"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Duration time.Duration  `json:"duration" yaml:"duration"`
}

func pass(msg string, details map[string]any) Result {
	return Result{Status: StatusPass, Message: msg, Details: details}
}

func warn(msg string, details map[string]any) Result {
	return Result{Status: StatusWarning, Message: msg, Details: details}
}

func fail(msg string, details map[string]any) Result {
	return Result{Status: StatusFail, Message: msg, Details: details}
}

// Summary counts results per status.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// Report is the outcome of one run. It is held in memory only.
type Report struct {
	RunID     uuid.UUID     `json:"runId" yaml:"runId"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Results   []Result      `json:"results" yaml:"results"`
	Summary   Summary       `json:"summary" yaml:"summary"`
	Overall   Status        `json:"overall" yaml:"overall"`
}

// Aggregate reduces results to a summary and the worst-of overall status:
// fail if any failed, else warning if any warned, else pass.
func Aggregate(results []Result) (Summary, Status) {
	sum := Summary{Total: len(results)}
	overall := StatusPass
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			sum.Passed++
		case StatusFail:
			sum.Failed++
		case StatusWarning:
			sum.Warnings++
		}
		overall = Worst(overall, r.Status)
	}
	if overall == StatusPending {
		overall = StatusPass
	}
	return sum, overall
}
