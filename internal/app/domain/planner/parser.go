package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voyago/voyago/internal/app/models"
)

// cleanJSONResponse removes markdown code fences the model sometimes wraps
// around the JSON payload.
func cleanJSONResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// parseItineraryResponse turns raw model output into a validated Itinerary.
// The itinerary is either accepted whole or rejected; no partial result
// escapes.
func parseItineraryResponse(responseText string, prefs models.TravelPreferences, expectedDays int) (*models.Itinerary, error) {
	if responseText == "" {
		return nil, fmt.Errorf("empty generation response")
	}

	var itinerary models.Itinerary
	if err := json.Unmarshal([]byte(cleanJSONResponse(responseText)), &itinerary); err != nil {
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}

	// The schema asks the model for duration, but the derived day count is
	// authoritative.
	itinerary.Duration = expectedDays
	itinerary.StartDate = prefs.StartDate
	itinerary.EndDate = prefs.EndDate

	if err := itinerary.Validate(expectedDays); err != nil {
		return nil, fmt.Errorf("generation response is malformed: %w", err)
	}
	return &itinerary, nil
}
