package errors

import (
	"math"
	"strings"
	"testing"
)

func TestModelParseError(t *testing.T) {
	err := NewModelParseError("WATER.model", "[training_data.x]", 42, "expected 3 columns, got 2")

	var parseErr *ModelParseError
	if !As(err, &parseErr) {
		t.Fatalf("expected ModelParseError, got %T", err)
	}
	if parseErr.Line != 42 {
		t.Errorf("Line = %d, want 42", parseErr.Line)
	}
	if !strings.Contains(err.Error(), "line 42") {
		t.Errorf("message should contain the line number: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "[training_data.x]") {
		t.Errorf("message should contain the section: %s", err.Error())
	}
}

func TestModelParseErrorWithoutLine(t *testing.T) {
	err := NewModelParseError("", "composition", 0, "kernel k2 is not defined")
	if strings.Contains(err.Error(), "line") {
		t.Errorf("message should omit the line number when unknown: %s", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("Model.Predict", 6, 4, 1)

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
	if dimErr.Expected != 6 || dimErr.Got != 4 {
		t.Errorf("Expected/Got = %d/%d, want 6/4", dimErr.Expected, dimErr.Got)
	}
	if !strings.Contains(err.Error(), "features") {
		t.Errorf("axis 1 should map to features: %s", err.Error())
	}
}

func TestNumericalErrorUnwrap(t *testing.T) {
	err := NewNumericalError("Model.invR", "singular covariance matrix", ErrSingularMatrix)

	if !Is(err, ErrSingularMatrix) {
		t.Error("NumericalError should unwrap to ErrSingularMatrix")
	}
	var numErr *NumericalError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalError, got %T", err)
	}
	if numErr.Op != "Model.invR" {
		t.Errorf("Op = %q", numErr.Op)
	}
}

func TestSelectionError(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		reason   string
		wrapped  error
	}{
		{"no cause", "random", "requested 0 points", nil},
		{"with cause", "epe", "all models failed", ErrSingularMatrix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSelectionError(tt.selector, tt.reason, tt.wrapped)
			var selErr *SelectionError
			if !As(err, &selErr) {
				t.Fatalf("expected SelectionError, got %T", err)
			}
			if selErr.Selector != tt.selector {
				t.Errorf("Selector = %q, want %q", selErr.Selector, tt.selector)
			}
			if tt.wrapped != nil && !Is(err, tt.wrapped) {
				t.Error("SelectionError should unwrap to its cause")
			}
		})
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("test", []float64{1.0, -2.5, 0.0}); err != nil {
		t.Errorf("finite values should pass: %v", err)
	}
	if err := CheckNumericalStability("test", []float64{1.0, math.NaN()}); err == nil {
		t.Error("NaN should be detected")
	}
	if err := CheckScalar("test", math.Inf(1)); err == nil {
		t.Error("Inf should be detected")
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "fn")
		panic("mat: dimension mismatch")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected recovered error")
	}
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "fn" {
		t.Errorf("Operation = %q, want fn", panicErr.Operation)
	}
}
