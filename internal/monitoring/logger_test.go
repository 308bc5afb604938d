package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// Nil installs a no-op logger; calling it must not panic or forward.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("no-op logger should not forward")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}

func TestScoped(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Scoped("planner")("dancer %s placed", "d01")
	want := "[planner] dancer d01 placed"
	if got != want {
		t.Errorf("scoped log = %q, want %q", got, want)
	}
}
