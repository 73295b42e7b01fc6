package app

import "time"

// Operation tracks the CLI command a CatalogApp was built for. Its RunID
// tags every log line the command writes.
type Operation struct {
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation starts an operation at now.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		Name:      name,
		StartedAt: now,
		Status:    "success",
	}
}

// RunID identifies this run in the log: the operation name and the UTC start.
func (op *Operation) RunID() string {
	return op.Name + "-" + op.StartedAt.UTC().Format("20060102T150405Z")
}

// Fail marks the operation as failed.
func (op *Operation) Fail() { op.Status = "error" }

// Failed reports whether Fail was called.
func (op *Operation) Failed() bool { return op.Status == "error" }
