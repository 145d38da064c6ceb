package types

// PlanRequest carries one form submission. Request-scoped, never persisted.
type PlanRequest struct {
	Text       string `json:"text"`
	Who        string `json:"who"`
	When       string `json:"when,omitempty"` // fixed date YYYY-MM-DD, empty when the model should propose dates
	Prefecture string `json:"prefecture,omitempty"`
	City       string `json:"city,omitempty"`
}

// PlanResponse is the aggregate suggestion object for one occasion query.
type PlanResponse struct {
	Message  string          `json:"message"`
	Schedule []ScheduleEntry `json:"schedule"`
	Ready    []string        `json:"ready"`
	Items    []string        `json:"items"`
	Events   []Event         `json:"events"`
	Error    *string         `json:"error"`
}

// ScheduleEntry is one candidate calendar date with justification.
type ScheduleEntry struct {
	Date    string           `json:"date"` // YYYY-MM-DD
	Reason  string           `json:"reason"`
	Weather *WeatherSnapshot `json:"weather"`
}

// Event is a culturally associated sub-occasion around the main occasion.
type Event struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CheckResponse is the isCelebration reply.
type CheckResponse struct {
	Check bool `json:"check"`
}

// ItemDetail is a single preparation item description.
type ItemDetail struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Importance      string `json:"importance"`
	EstimatedBudget string `json:"estimated_budget"`
	WhenToPrepare   string `json:"when_to_prepare"`
	Notes           string `json:"notes"`
	Recommendations string `json:"recommendations"`
}

// ItemCategory groups ItemDetails for display.
type ItemCategory struct {
	Name  string       `json:"name"`
	Items []ItemDetail `json:"items"`
}

// ItemsDetailResponse is the itemsDetail reply.
type ItemsDetailResponse struct {
	Categories          []ItemCategory `json:"categories"`
	TotalBudgetEstimate string         `json:"total_budget_estimate"`
	Error               *string        `json:"error,omitempty"`
}

// TimeSlot is a suggested time window within a recommended date.
type TimeSlot struct {
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Reason    string `json:"reason"`
}

// RecommendedDate is a candidate date for holding an event.
type RecommendedDate struct {
	Date           string           `json:"date"` // YYYY-MM-DD
	Reason         string           `json:"reason"`
	Considerations string           `json:"considerations,omitempty"`
	IsHoliday      bool             `json:"is_holiday,omitempty"`
	TimeSlots      []TimeSlot       `json:"time_slots"`
	Weather        *WeatherSnapshot `json:"weather"`
}

// EventDetail describes one event in depth.
type EventDetail struct {
	Description          string            `json:"description"`
	CulturalSignificance string            `json:"cultural_significance"`
	RecommendedDates     []RecommendedDate `json:"recommended_dates"`
}

// EventDetailResponse is the eventDetail reply envelope.
type EventDetailResponse struct {
	EventDetails *EventDetail `json:"eventDetails,omitempty"`
	Error        *string      `json:"error,omitempty"`
}

// ReadyStep is one step of a readiness task.
type ReadyStep struct {
	Step        string   `json:"step"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Tips        []string `json:"tips"`
}

// ReadyDetailResponse is the readyDetail reply.
type ReadyDetailResponse struct {
	Title          string      `json:"title"`
	Overview       string      `json:"overview"`
	Timeline       string      `json:"timeline"`
	Steps          []ReadyStep `json:"steps"`
	RequiredItems  []string    `json:"required_items"`
	EstimatedCost  string      `json:"estimated_cost"`
	Considerations []string    `json:"considerations"`
	Error          *string     `json:"error,omitempty"`
}
