package services

import (
	"strings"
	"testing"
)

func TestSearchStrategiesOrderAndCleaning(t *testing.T) {
	got := searchStrategies("Torre de Belém (Belem Tower)!", "Lisbon")

	if len(got) == 0 {
		t.Fatalf("no strategies produced")
	}
	if strings.ContainsAny(got[0], "!") {
		t.Fatalf("first strategy not cleaned: %q", got[0])
	}
	if got[1] != "Torre de Belm" {
		t.Fatalf("parenthetical strip wrong: %q", got[1])
	}
	for _, q := range got {
		if strings.TrimSpace(q) == "" {
			t.Fatalf("empty strategy in %v", got)
		}
	}

	seen := map[string]bool{}
	for _, q := range got {
		if seen[q] {
			t.Fatalf("duplicate strategy %q", q)
		}
		seen[q] = true
	}
}

func TestSearchStrategiesIncludeLocationFallbacks(t *testing.T) {
	got := searchStrategies("Alfama", "Lisbon")

	joined := strings.Join(got, "|")
	for _, want := range []string{"Alfama Lisbon", "Alfama tourist attraction", "Alfama landmark", "Lisbon Alfama"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing strategy %q in %v", want, got)
		}
	}
}

func TestFormPhotoURL(t *testing.T) {
	url := FormPhotoURL("places/abc/photos/xyz", 800)
	if !strings.HasPrefix(url, "https://places.googleapis.com/v1/places/abc/photos/xyz/media?") {
		t.Fatalf("unexpected url: %q", url)
	}
	if !strings.Contains(url, "maxWidthPx=800") {
		t.Fatalf("missing width param: %q", url)
	}

	if FormPhotoURL("", 800) != "" {
		t.Fatalf("empty ref should yield empty url")
	}
}
