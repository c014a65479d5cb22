package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"roamly/internal/models/request_models"
)

const skeletonPromptTemplate = `Generate a travel plan outline for Location: {location}, for {totalDays} Days and {totalNight} Night for {traveler} with a {budget} budget ({dailyBudget} USD per person per day).

**Activity Preferences**: {activityPreferences}
**Activity Cost Preference**: {activityCostPreference}

IMPORTANT INSTRUCTIONS:
1. Provide REAL place names specific to {location}, no descriptions yet
2. **PRIORITIZE activities that match these preferences: {activityPreferences}**
3. **RESPECT the cost preference: {activityCostPreference}**
   - If "free": Focus on free/low-cost activities, public spaces, free museums
   - If "mixed": Balance 50/50 between free and paid activities
   - If "premium": Focus on premium paid experiences, tours, special access
4. Consider the traveler type ({traveler}) when suggesting activities
5. Fill every day from day1 to day{totalDays} with 3-5 places each
6. **CRITICAL**: Return ONLY valid, complete JSON - NO markdown, NO explanations, NO truncation
7. **CRITICAL**: Ensure JSON is properly closed with all brackets and braces

JSON Structure Required:
{
  "travelPlan": {
    "location": "{location}",
    "duration": "{totalDays} Days & {totalNight} Nights",
    "travelers": "{traveler}",
    "budget": "{budget}",
    "itinerary": {
      "day1": {
        "bestTime": "Morning/Afternoon/Evening",
        "plan": [
          {
            "placeName": "Place Name",
            "timeSlot": "Morning",
            "category": "attraction",
            "estimatedCost": "Free or estimated price"
          }
        ]
      }
    }
  }
}

Return ONLY valid JSON, no additional text.`

const detailPromptTemplate = `You previously produced this travel plan outline for {location}:

{skeletonJson}

Enhance this exact plan. Do NOT regenerate it: keep every day key and every placeName exactly as given, only ADD detail fields.

**Activity Preferences**: {activityPreferences}
**Daily Budget Per Person**: {dailyBudget} USD

IMPORTANT INSTRUCTIONS:
1. Provide REAL, well-researched details specific to {location}
2. Include accurate pricing in local currency with USD equivalent
3. **ALL pricing must fit within the daily budget of {dailyBudget} USD per person**
4. For every place add: placeDetails, ticketPricing, timeToTravel, bestTimeToVisit, tip, rating, geoCoordinates
5. Add 2-3 hotel suggestions and flight details for {traveler} on a {budget} budget
6. Include practical details like opening hours, best time to visit, and travel times
7. **CRITICAL**: Keep descriptions concise (max 2-3 sentences per item) to fit token limits
8. **CRITICAL**: Return ONLY valid, complete JSON - NO markdown, NO explanations, NO truncation
9. **CRITICAL**: Ensure JSON is properly closed with all brackets and braces

JSON Structure Required:
{
  "travelPlan": {
    "location": "{location}",
    "duration": "{totalDays} Days & {totalNight} Nights",
    "travelers": "{traveler}",
    "budget": "{budget}",
    "flight": {
      "details": "Flight information",
      "price": "Estimated price",
      "bookingUrl": "https://www.google.com/flights"
    },
    "hotels": [
      {
        "hotelName": "Hotel Name",
        "address": "Hotel Address",
        "price": "Price per night",
        "geoCoordinates": [latitude, longitude],
        "rating": 4.5,
        "description": "Hotel description"
      }
    ],
    "itinerary": {
      "day1": {
        "bestTime": "Morning/Afternoon/Evening",
        "plan": [
          {
            "placeName": "Place Name",
            "placeDetails": "Description of the place and activities",
            "geoCoordinates": [latitude, longitude],
            "ticketPricing": "Free or ticket price",
            "timeToTravel": "Duration",
            "bestTimeToVisit": "Morning/Afternoon/Evening",
            "tip": "A short practical tip"
          }
        ]
      }
    }
  }
}

Make sure to provide actual recommendations for {location} with realistic prices and genuine place suggestions. Return ONLY valid JSON, no additional text.`

const morePlacesPromptTemplate = `Suggest {count} additional {filterDescription} in {location} for {traveler} on a {budget} budget.

Do NOT repeat any of these places already in the plan: {existingPlaces}

IMPORTANT INSTRUCTIONS:
1. Provide REAL places specific to {location}
2. Keep descriptions concise (max 2-3 sentences per item)
3. **CRITICAL**: Return ONLY a valid, complete JSON array - NO markdown, NO explanations

JSON Structure Required:
[
  {
    "placeName": "Place Name",
    "placeDetails": "Description of the place and activities",
    "geoCoordinates": [latitude, longitude],
    "ticketPricing": "Free or ticket price",
    "timeToTravel": "Duration",
    "category": "{filterType}"
  }
]

Return ONLY the JSON array, no additional text.`

// filterDescriptions expands a filter type into prompt wording.
var filterDescriptions = map[string]string{
	"attractions":   "must-see attractions and landmarks",
	"restaurants":   "restaurants and local food experiences",
	"nature":        "parks, nature spots and outdoor activities",
	"shopping":      "shopping areas, markets and boutiques",
	"entertainment": "entertainment venues and nightlife spots",
}

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z]+\}`)

// renderTemplate substitutes {name} placeholders and fails when any remain
// unfilled. Literal braces from the JSON structure blocks survive because
// leftovers are only flagged when they look like a placeholder name.
func renderTemplate(template string, values map[string]string) (string, error) {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	out := strings.NewReplacer(pairs...).Replace(template)

	if leftover := placeholderPattern.FindString(out); leftover != "" {
		return "", fmt.Errorf("prompt template has unfilled placeholder %s", leftover)
	}
	return out, nil
}

func preferenceValues(prefs *request_models.TripPreferences) map[string]string {
	activities := "varied sightseeing"
	if len(prefs.ActivityPreferences) > 0 {
		activities = strings.Join(prefs.ActivityPreferences, ", ")
	}
	costPref := prefs.ActivityCostPreference
	if costPref == "" {
		costPref = "mixed"
	}
	dailyBudget := prefs.DailyBudget
	if dailyBudget == "" {
		dailyBudget = "flexible"
	}
	totalNight := prefs.TotalDays - 1
	if totalNight < 0 {
		totalNight = 0
	}
	return map[string]string{
		"location":               prefs.Destination,
		"totalDays":              strconv.Itoa(prefs.TotalDays),
		"totalNight":             strconv.Itoa(totalNight),
		"traveler":               prefs.Traveler,
		"budget":                 prefs.Budget,
		"dailyBudget":            dailyBudget,
		"activityPreferences":    activities,
		"activityCostPreference": costPref,
	}
}

func BuildSkeletonPrompt(prefs *request_models.TripPreferences) (string, error) {
	return renderTemplate(skeletonPromptTemplate, preferenceValues(prefs))
}

func BuildDetailPrompt(prefs *request_models.TripPreferences, skeletonJSON string) (string, error) {
	values := preferenceValues(prefs)
	values["skeletonJson"] = skeletonJSON
	return renderTemplate(detailPromptTemplate, values)
}

func BuildMorePlacesPrompt(prefs *request_models.TripPreferences, filterType string, existingPlaces []string, count int) (string, error) {
	desc, ok := filterDescriptions[filterType]
	if !ok {
		return "", fmt.Errorf("unknown filter type %q", filterType)
	}
	existing := "none yet"
	if len(existingPlaces) > 0 {
		existing = strings.Join(existingPlaces, ", ")
	}
	values := preferenceValues(prefs)
	values["count"] = strconv.Itoa(count)
	values["filterDescription"] = desc
	values["filterType"] = filterType
	values["existingPlaces"] = existing
	return renderTemplate(morePlacesPromptTemplate, values)
}
