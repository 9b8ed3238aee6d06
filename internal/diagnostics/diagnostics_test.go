package diagnostics

import "testing"

func TestCompileErrorMessageFormatting(t *testing.T) {
	err := NewCompileError(42, "duplicate parameter %q", "x")
	want := `compile error at 42: duplicate parameter "x"`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestStaticErrorOperationWithSubstitutionArg(t *testing.T) {
	err := NewStaticErrorOperation(7, TypeError, MsgAssignmentToConstant, "x")
	want := `TypeError: Assignment to constant variable 'x'.`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestStaticErrorOperationWithoutSubstitutionArg(t *testing.T) {
	err := NewStaticErrorOperation(7, ReferenceError, MsgSuperNotAllowed, "")
	want := "ReferenceError: 'super' keyword is only valid inside a class"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
