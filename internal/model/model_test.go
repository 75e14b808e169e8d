package model

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		p     int
		label string
		color string
	}{
		{0, "EMERG", "#B91C1C"},
		{3, "ERR", "#F97316"},
		{6, "INFO", "#10B981"},
		{7, "DEBUG", "#6B7280"},
		{8, "P8", "#cccccc"},
		{-1, "P-1", "#cccccc"},
		{42, "P42", "#cccccc"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Describe(tt.p)
			if got.Label != tt.label {
				t.Errorf("Describe(%d).Label = %q, want %q", tt.p, got.Label, tt.label)
			}
			if got.Color != tt.color {
				t.Errorf("Describe(%d).Color = %q, want %q", tt.p, got.Color, tt.color)
			}
			if got.Value != tt.p {
				t.Errorf("Describe(%d).Value = %d", tt.p, got.Value)
			}
		})
	}
	if Describe(9).Class != "" {
		t.Error("unknown priority should have empty class")
	}
}

func TestPriorityByName(t *testing.T) {
	if p, ok := PriorityByName("err"); !ok || p != 3 {
		t.Errorf("PriorityByName(err) = %d, %v", p, ok)
	}
	if p, ok := PriorityByName("WARNING"); !ok || p != 4 {
		t.Errorf("PriorityByName(WARNING) = %d, %v", p, ok)
	}
	if _, ok := PriorityByName("loud"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestDerivedIdentifier(t *testing.T) {
	tests := []struct {
		name string
		rec  LogRecord
		want string
	}{
		{"identifier wins", LogRecord{Identifier: "sshd", Comm: "sshd-session", Unit: "ssh.service"}, "sshd"},
		{"comm fallback", LogRecord{Comm: "cron", Unit: "cron.service"}, "cron"},
		{"unit fallback", LogRecord{Unit: "nginx.service"}, "nginx.service"},
		{"none", LogRecord{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.DerivedIdentifier(); got != tt.want {
				t.Errorf("DerivedIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryFor(t *testing.T) {
	want := map[int]string{0: "CRITICAL", 2: "CRITICAL", 3: "ERROR", 4: "WARNING", 5: "INFO", 7: "INFO", 12: "INFO"}
	for p, cat := range want {
		if got := CategoryFor(p); got != cat {
			t.Errorf("CategoryFor(%d) = %q, want %q", p, got, cat)
		}
	}
}

func TestFilterEffective(t *testing.T) {
	f := FilterCriteria{Message: "fail", Priority: "3", GlobalSearch: "ssh"}
	got := f.Effective()
	if got != (FilterCriteria{GlobalSearch: "ssh"}) {
		t.Errorf("Effective() = %+v, want global search only", got)
	}

	f.GlobalSearch = ""
	if got := f.Effective(); got != f {
		t.Errorf("Effective() without global search changed criteria: %+v", got)
	}
	if f.IsEmpty() {
		t.Error("IsEmpty() = true for populated criteria")
	}
	if !(FilterCriteria{}).IsEmpty() {
		t.Error("IsEmpty() = false for zero criteria")
	}
}

func TestPageState(t *testing.T) {
	p := PageState{Page: 1, TotalPages: 3}
	if p.CanPrev() {
		t.Error("CanPrev() on first page")
	}
	if !p.CanNext() {
		t.Error("CanNext() false on first of three pages")
	}
	if _, ok := p.Target(-1); ok {
		t.Error("Target(-1) from page 1 should be out of range")
	}
	if got, ok := p.Target(2); !ok || got != 3 {
		t.Errorf("Target(2) = %d, %v", got, ok)
	}
	if _, ok := p.Target(3); ok {
		t.Error("Target(3) past last page should be out of range")
	}

	last := PageState{Page: 3, TotalPages: 3}
	if last.CanNext() || !last.CanPrev() {
		t.Errorf("last page: CanNext=%v CanPrev=%v", last.CanNext(), last.CanPrev())
	}
}

func TestTotalPagesFor(t *testing.T) {
	tests := []struct{ total, per, want int }{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 0, 3},
	}
	for _, tt := range tests {
		if got := TotalPagesFor(tt.total, tt.per); got != tt.want {
			t.Errorf("TotalPagesFor(%d, %d) = %d, want %d", tt.total, tt.per, got, tt.want)
		}
	}
}
