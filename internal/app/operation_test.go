package app

import (
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600))
	op := NewOperation("serve", start)

	if op.Status != "success" {
		t.Errorf("Status = %q, want success", op.Status)
	}
	if op.Failed() {
		t.Error("new operation reports failure")
	}
	if got, want := op.RunID(), "serve-20240115T093000Z"; got != want {
		t.Errorf("RunID() = %q, want %q", got, want)
	}
}

func TestOperation_Fail(t *testing.T) {
	op := NewOperation("content-import", time.Now())
	op.Fail()
	if !op.Failed() || op.Status != "error" {
		t.Errorf("after Fail: Status = %q", op.Status)
	}
}
