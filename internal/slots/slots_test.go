package slots

import "testing"

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(all))
	}
	if all[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", all[0])
	}
	if all[len(all)-1] != "16:30" {
		t.Errorf("expected last slot 16:30, got %s", all[len(all)-1])
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"16:30", true},
		{"12:30", true},
		{"17:00", false},
		{"08:30", false},
		{"09:15", false},
		{"9:00", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.time); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.time, got, tc.want)
		}
	}
}

func TestAvailable(t *testing.T) {
	busy := []string{"09:00", "13:30", "16:30"}
	free := Available(busy)

	if len(free) != 13 {
		t.Fatalf("expected 13 free slots, got %d", len(free))
	}
	occupied := map[string]bool{}
	for _, b := range busy {
		occupied[b] = true
	}
	for _, f := range free {
		if occupied[f] {
			t.Errorf("busy slot %s reported as available", f)
		}
	}
	if free[0] != "09:30" {
		t.Errorf("expected first free slot 09:30, got %s", free[0])
	}
}

func TestAvailable_NoBusy(t *testing.T) {
	free := Available(nil)
	if len(free) != len(All()) {
		t.Fatalf("expected full grid, got %d slots", len(free))
	}
}
