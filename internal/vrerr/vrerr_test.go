package vrerr

import (
	"errors"
	"testing"
)

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
		tag  string
	}{
		{InputError("op", errors.New("bad")), 2, "input_error"},
		{RoutingError("op", errors.New("bad")), 3, "routing_error"},
		{InternalError("op", errors.New("bad")), 1, "internal_error"},
	}
	for _, c := range cases {
		if got := c.err.ExitCode(); got != c.code {
			t.Errorf("%s: ExitCode() = %d, want %d", c.tag, got, c.code)
		}
		if got := c.err.Code(); got != c.tag {
			t.Errorf("Code() = %q, want %q", got, c.tag)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InternalError("op", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to see through the wrapped cause")
	}
}

func TestErrorStringIncludesOp(t *testing.T) {
	err := InputError("jsonio.Decode", errors.New("missing vehicles"))
	if got := err.Error(); got != "jsonio.Decode: missing vehicles" {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestFormattedConstructors(t *testing.T) {
	err := InputErrorf("op", "bad field %q", "capacity")
	if err.Error() != `op: bad field "capacity"` {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}
