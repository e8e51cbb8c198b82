package domain

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusCompleted}: true,
		{StatusPending, StatusFailed}:    true,
		{StatusPending, StatusCancelled}: true,
	}

	// Exhaustive grid: every (from, to) pair outside the allowed set must be
	// rejected, including self-transitions and moves out of terminal states.
	for _, from := range Statuses {
		for _, to := range Statuses {
			got := from.CanTransitionTo(to)
			want := allowed[[2]Status{from, to}]
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("PENDING must not be terminal")
	}
	for _, s := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	if Status("UNKNOWN").Terminal() {
		t.Error("unrecognised status must not report terminal")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Fatalf("ParseStatus(%s): unexpected error %v", s, err)
		}
		if parsed != s {
			t.Fatalf("ParseStatus(%s) = %s", s, parsed)
		}
	}

	for _, invalid := range []string{"", "pending", "Pending", "DONE"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q): expected error", invalid)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	for _, c := range Currencies {
		parsed, err := ParseCurrency(string(c))
		if err != nil {
			t.Fatalf("ParseCurrency(%s): unexpected error %v", c, err)
		}
		if parsed != c {
			t.Fatalf("ParseCurrency(%s) = %s", c, parsed)
		}
	}

	for _, invalid := range []string{"", "usd", "BTC", "US"} {
		if _, err := ParseCurrency(invalid); err == nil {
			t.Errorf("ParseCurrency(%q): expected error", invalid)
		}
	}
}
