package focus

import "testing"

func TestTracker(t *testing.T) {
	tr := NewTracker()
	probe := tr.Probe("spaceduck")

	if probe.Focused() {
		t.Fatal("unknown window must not be focused")
	}

	tr.SetFocused("spaceduck", true)
	if !probe.Focused() {
		t.Error("expected focused after SetFocused(true)")
	}
	if tr.Focused("other") {
		t.Error("other window must not be focused")
	}

	tr.SetFocused("spaceduck", false)
	if probe.Focused() {
		t.Error("expected unfocused after SetFocused(false)")
	}
}

func TestSafe(t *testing.T) {
	tests := []struct {
		name  string
		probe Probe
		want  bool
	}{
		{"nil", nil, false},
		{"panic", Func(func() bool { panic("handle error") }), false},
		{"focused", Func(func() bool { return true }), true},
		{"unfocused", Func(func() bool { return false }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Safe(tt.probe).Focused(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAny(t *testing.T) {
	no := Func(func() bool { return false })
	yes := Func(func() bool { return true })
	boom := Func(func() bool { panic("boom") })

	if Any().Focused() {
		t.Error("empty Any must be unfocused")
	}
	if Any(no, boom).Focused() {
		t.Error("expected unfocused")
	}
	if !Any(boom, no, yes).Focused() {
		t.Error("expected focused when one probe reports focus")
	}
}
