package domain

import "testing"

func TestParseStatusAcceptsVocabulary(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseStatus(%q) = %q", s, parsed)
		}
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "paid", "cancelled", "Assigned", "NEW"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q) should have failed", raw)
		}
	}
}

// Every (current, next) pair is checked so that adding a status forces a
// decision here.
func TestCanTransitionExhaustive(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusAssigned, StatusInProgress}:  true,
		{StatusInProgress, StatusCompleted}: true,
	}

	for _, current := range AllStatuses {
		for _, next := range AllStatuses {
			want := allowed[[2]Status{current, next}]
			if got := CanTransition(current, next); got != want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", current, next, got, want)
			}
		}
	}
}

func TestIsProTarget(t *testing.T) {
	wantTargets := map[Status]bool{
		StatusInProgress: true,
		StatusCompleted:  true,
	}

	for _, s := range AllStatuses {
		if got := IsProTarget(s); got != wantTargets[s] {
			t.Errorf("IsProTarget(%q) = %v, want %v", s, got, wantTargets[s])
		}
	}
}

func TestRequiresOwner(t *testing.T) {
	wantOwner := map[Status]bool{
		StatusAssigned:   true,
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusClosed:     true,
	}

	for _, s := range AllStatuses {
		if got := RequiresOwner(s); got != wantOwner[s] {
			t.Errorf("RequiresOwner(%q) = %v, want %v", s, got, wantOwner[s])
		}
	}
}
