package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 point as returned by the generation call.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Weather struct {
	Forecast    string `json:"forecast"`
	Temperature string `json:"temperature"`
}

type FoodRec struct {
	DishName            string `json:"dishName"`
	SuggestedRestaurant string `json:"suggestedRestaurant"`
}

type TravelTip struct {
	Tip         string `json:"tip"`
	Explanation string `json:"explanation"`
}

type PackingListItem struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Activity is a single scheduled attraction visit. AttractionName together
// with the day number is its identity key. The enrichment fields may be
// absent; render them with OrNA.
type Activity struct {
	Time               string       `json:"time"`
	Description        string       `json:"description"`
	AttractionName     string       `json:"attractionName"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	OpeningHours       string       `json:"openingHours,omitempty"`
	EstimatedDuration  string       `json:"estimatedDuration,omitempty"`
	BookingInfo        string       `json:"bookingInfo,omitempty"`
	UserReviewsSummary string       `json:"userReviewsSummary,omitempty"`
	AverageCost        string       `json:"averageCost,omitempty"`
}

type DailyPlan struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme"`
	Weather    Weather    `json:"weather"`
	Activities []Activity `json:"activities"`
	FoodToTry  FoodRec    `json:"foodToTry"`
}

// Itinerary is the full AI-generated trip plan. It is produced wholesale by
// the generation call and never partially mutated afterwards.
type Itinerary struct {
	Title       string            `json:"title"`
	Destination string            `json:"destination"`
	Duration    int               `json:"duration"`
	StartDate   string            `json:"startDate,omitempty"`
	EndDate     string            `json:"endDate,omitempty"`
	Coordinates *Coordinates      `json:"coordinates,omitempty"`
	TravelTips  []TravelTip       `json:"travelTips"`
	DailyPlans  []DailyPlan       `json:"dailyPlans"`
	PackingList []PackingListItem `json:"packingList,omitempty"`
}

// SavedItinerary is an itinerary persisted with an id and save timestamp.
// Entries are never mutated in place.
type SavedItinerary struct {
	ID        uuid.UUID `json:"id"`
	SavedAt   time.Time `json:"savedAt"`
	Itinerary Itinerary `json:"itinerary"`
}

// Selection is the currently highlighted activity shared between the list
// and map views. Identity comparison is (day, attractionName).
type Selection struct {
	Day            int    `json:"day"`
	AttractionName string `json:"attractionName"`
}

func (s Selection) Same(day int, attractionName string) bool {
	return s.Day == day && s.AttractionName == attractionName
}

// OrNA substitutes the display placeholder for absent enrichment fields.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Validate checks that a generated itinerary satisfies the schema contract:
// required top-level fields, exactly expectedDays daily plans numbered
// 1..N with unique day numbers, and activities with identity keys.
func (it *Itinerary) Validate(expectedDays int) error {
	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("itinerary is missing a title")
	}
	if strings.TrimSpace(it.Destination) == "" {
		return fmt.Errorf("itinerary is missing a destination")
	}
	if len(it.DailyPlans) != expectedDays {
		return fmt.Errorf("expected %d daily plans, got %d", expectedDays, len(it.DailyPlans))
	}

	seen := make(map[int]bool, len(it.DailyPlans))
	for _, plan := range it.DailyPlans {
		if plan.Day < 1 || plan.Day > expectedDays {
			return fmt.Errorf("day number %d out of range 1..%d", plan.Day, expectedDays)
		}
		if seen[plan.Day] {
			return fmt.Errorf("duplicate day number %d", plan.Day)
		}
		seen[plan.Day] = true

		if len(plan.Activities) == 0 {
			return fmt.Errorf("day %d has no activities", plan.Day)
		}
		for i, act := range plan.Activities {
			if strings.TrimSpace(act.AttractionName) == "" {
				return fmt.Errorf("day %d activity %d is missing an attraction name", plan.Day, i+1)
			}
		}
		if strings.TrimSpace(plan.FoodToTry.DishName) == "" {
			return fmt.Errorf("day %d is missing a food recommendation", plan.Day)
		}
	}
	return nil
}
