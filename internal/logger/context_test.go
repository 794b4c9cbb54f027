package logger

import (
	"context"
	"io"
	"testing"
)

func TestWithFieldsPropagatesThroughContext(t *testing.T) {
	base := New(&Config{Level: "error", Format: "text", Output: io.Discard})
	ctx := base.WithContext(context.Background())

	ctx = WithFields(ctx, Fields{
		FieldCustomerID: "cust-1",
		FieldComponent:  "poller",
	})
	ctx = WithField(ctx, FieldSessionID, "sess-1")

	log := FromContext(ctx)
	if log.Data[FieldCustomerID] != "cust-1" {
		t.Errorf("Expected customer_id in logger fields, got %v", log.Data)
	}
	if log.Data[FieldSessionID] != "sess-1" {
		t.Errorf("Expected session_id in logger fields, got %v", log.Data)
	}

	// Fields on a derived context must not leak back into the base logger.
	if _, ok := base.Data[FieldCustomerID]; ok {
		t.Error("Base logger must be unchanged")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("Expected the default logger for a bare context")
	}
	if FromContext(nil) == nil {
		t.Error("Expected the default logger for a nil context")
	}
}
