package planner

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/models"
)

func buildItineraryPrompt(prefs models.TravelPreferences, days int) string {
	var b strings.Builder
	b.WriteString("You are an expert travel planner. Create a detailed, day-by-day travel itinerary based on these user preferences:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", prefs.Destination)
	fmt.Fprintf(&b, "- Trip Duration: %d day(s)\n", days)
	fmt.Fprintf(&b, "- Travel Dates: %s to %s\n", prefs.StartDate, prefs.EndDate)
	fmt.Fprintf(&b, "- Budget: Approximately %s\n", prefs.FormatBudget())
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(prefs.Interests, ", "))
	b.WriteString(`
Your response must be a JSON object that strictly follows the response schema.
Include precise latitude and longitude coordinates for the main destination and for each individual attraction.
For each day, provide:
- A creative theme.
- 2-3 specific activities with suggested times.
- A local food dish to try and a specific, well-regarded restaurant suggestion.
- A typical weather forecast (e.g., "Sunny and warm") and temperature range for the season.
For each activity, also provide:
- openingHours: Typical opening hours (e.g., "9:00 AM - 5:00 PM", or "Varies").
- estimatedDuration: A suggested duration (e.g., "2-3 hours").
- bookingInfo: Booking advice (e.g., "Book tickets online in advance" or "No booking required").
The travel tips should be practical, each with a short explanation of why it matters.
The packing list should fit the season, the weather, and the planned activities.
Ensure attraction and restaurant names are real and well-known for the destination.
`)
	return b.String()
}

// itineraryResponseSchema constrains the model output to the itinerary
// document shape, so parsing failures are the exception rather than the rule.
func itineraryResponseSchema() *genai.Schema {
	coordinates := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeObject,
			Description: desc,
			Properties: map[string]*genai.Schema{
				"lat": {Type: genai.TypeNumber},
				"lng": {Type: genai.TypeNumber},
			},
			Required: []string{"lat", "lng"},
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString, Description: "A catchy title for the trip."},
			"destination": {Type: genai.TypeString},
			"duration":    {Type: genai.TypeInteger},
			"coordinates": coordinates("Latitude and longitude for the destination city."),
			"travelTips": {
				Type:        genai.TypeArray,
				Description: "Practical travel tips with explanations.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"tip":         {Type: genai.TypeString},
						"explanation": {Type: genai.TypeString},
					},
					Required: []string{"tip", "explanation"},
				},
			},
			"packingList": {
				Type:        genai.TypeArray,
				Description: "What to pack and why.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item":   {Type: genai.TypeString},
						"reason": {Type: genai.TypeString},
					},
					Required: []string{"item", "reason"},
				},
			},
			"dailyPlans": {
				Type:        genai.TypeArray,
				Description: "The detailed plan for each day of the trip.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":   {Type: genai.TypeInteger, Description: "The day number (e.g., 1, 2)."},
						"theme": {Type: genai.TypeString, Description: "A theme for the day's activities."},
						"weather": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"forecast":    {Type: genai.TypeString},
								"temperature": {Type: genai.TypeString, Description: "e.g., 25C / 77F"},
							},
							Required: []string{"forecast", "temperature"},
						},
						"activities": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"time":              {Type: genai.TypeString, Description: "Suggested time (e.g., '9:00 AM')."},
									"description":       {Type: genai.TypeString},
									"attractionName":    {Type: genai.TypeString, Description: "Name of the key attraction for this activity."},
									"coordinates":       coordinates("Latitude and longitude for the attraction."),
									"openingHours":      {Type: genai.TypeString},
									"estimatedDuration": {Type: genai.TypeString},
									"bookingInfo":       {Type: genai.TypeString},
								},
								Required: []string{"time", "description", "attractionName", "coordinates", "openingHours", "estimatedDuration", "bookingInfo"},
							},
						},
						"foodToTry": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"dishName":            {Type: genai.TypeString},
								"suggestedRestaurant": {Type: genai.TypeString},
							},
							Required: []string{"dishName", "suggestedRestaurant"},
						},
					},
					Required: []string{"day", "theme", "weather", "activities", "foodToTry"},
				},
			},
		},
		Required: []string{"title", "destination", "duration", "coordinates", "travelTips", "dailyPlans"},
	}
}
