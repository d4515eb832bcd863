package errx

import (
	"errors"
	"testing"
)

func TestErrorIsComparesCodeOnly(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithData("k2", "v2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("expected errors.Is(e1, e2), e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, NewBiz("BIZ_Y", "x")) {
		t.Fatalf("different codes must not match")
	}
}

func TestSubMatchesFamily(t *testing.T) {
	family := NewBiz("FAMILY", "family")
	child := family.Sub("CHILD", "child")
	grandchild := child.Sub("GRANDCHILD", "grandchild").WithData("k", 1)

	if !errors.Is(child, family) {
		t.Fatalf("child should match its family")
	}
	if !errors.Is(grandchild, family) || !errors.Is(grandchild, child) {
		t.Fatalf("grandchild should match every ancestor")
	}
	if errors.Is(family, child) {
		t.Fatalf("family must not match a more specific child")
	}
	if errors.Is(child, NewBiz("OTHER", "")) {
		t.Fatalf("unrelated code matched")
	}
}

func TestBizErrorKeepsCauseWithoutStack(t *testing.T) {
	cause := errors.New("bad row")
	err := NewBiz("BIZ_DATA", "malformed").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("biz errors must not capture a stack, got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause chain lost, err=%v", err)
	}
}

func TestSysErrorCapturesStackOnce(t *testing.T) {
	cause := errors.New("io timeout")
	sys := NewSys("SYS_A", "a").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("expected a captured stack")
	}
	sys2 := NewSys("SYS_B", "b").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("outer error should not capture again, got=%v", got)
	}
}

func TestDataIsCopied(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("BIZ_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("data should be copied at construction, got=%v", got)
	}
	if err.Error() != "BIZ_X" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
