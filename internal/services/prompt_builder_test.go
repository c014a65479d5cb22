package services

import (
	"strings"
	"testing"

	"roamly/internal/models/request_models"
)

func prefsFixture() *request_models.TripPreferences {
	return &request_models.TripPreferences{
		Destination:            "Lisbon",
		TotalDays:              3,
		Traveler:               "Couple",
		Budget:                 "Moderate",
		DailyBudget:            "120",
		ActivityPreferences:    []string{"history", "food"},
		ActivityCostPreference: "mixed",
	}
}

func TestBuildSkeletonPromptFillsEveryPlaceholder(t *testing.T) {
	prompt, err := BuildSkeletonPrompt(prefsFixture())
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	for _, want := range []string{"Lisbon", "3 Days", "2 Night", "Couple", "Moderate", "history, food"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if placeholderPattern.MatchString(prompt) {
		t.Fatalf("prompt has unfilled placeholder: %s", placeholderPattern.FindString(prompt))
	}
}

func TestBuildSkeletonPromptDefaults(t *testing.T) {
	prefs := prefsFixture()
	prefs.ActivityPreferences = nil
	prefs.ActivityCostPreference = ""
	prefs.DailyBudget = ""

	prompt, err := BuildSkeletonPrompt(prefs)
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if placeholderPattern.MatchString(prompt) {
		t.Fatalf("prompt has unfilled placeholder: %s", placeholderPattern.FindString(prompt))
	}
}

func TestBuildDetailPromptEmbedsSkeleton(t *testing.T) {
	skeletonJSON := `{"travelPlan":{"location":"Lisbon","itinerary":{"day1":{"plan":[{"placeName":"Belem Tower"}]}}}}`

	prompt, err := BuildDetailPrompt(prefsFixture(), skeletonJSON)
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if !strings.Contains(prompt, skeletonJSON) {
		t.Fatalf("detail prompt does not embed the skeleton document")
	}
	if placeholderPattern.MatchString(prompt) {
		t.Fatalf("prompt has unfilled placeholder: %s", placeholderPattern.FindString(prompt))
	}
}

func TestBuildMorePlacesPrompt(t *testing.T) {
	prompt, err := BuildMorePlacesPrompt(prefsFixture(), "restaurants", []string{"Belem Tower", "Alfama"}, 6)
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	for _, want := range []string{"restaurants", "Belem Tower, Alfama", "Lisbon", "6"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if placeholderPattern.MatchString(prompt) {
		t.Fatalf("prompt has unfilled placeholder: %s", placeholderPattern.FindString(prompt))
	}
}

func TestBuildMorePlacesPromptUnknownFilter(t *testing.T) {
	if _, err := BuildMorePlacesPrompt(prefsFixture(), "skydiving", nil, 6); err == nil {
		t.Fatalf("unknown filter type accepted")
	}
}
