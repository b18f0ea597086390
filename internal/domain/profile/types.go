package profile

// ActivityLevel describes how physically active the user already is.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

// Goal is a wellness objective the user selected during onboarding.
type Goal string

const (
	GoalEnergy      Goal = "energy"
	GoalRoutine     Goal = "routine"
	GoalConsistency Goal = "consistency"
	GoalBalance     Goal = "balance"
)

// WorkSchedule captures the user's working hours as HH:MM strings.
type WorkSchedule struct {
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	WorkDays  []string `json:"workDays,omitempty"`
}

// SleepSchedule captures the user's sleep window as HH:MM strings.
type SleepSchedule struct {
	Bedtime  string `json:"bedtime"`
	WakeTime string `json:"wakeTime"`
}

// Preferences toggles which wellness categories the plan may include.
type Preferences struct {
	Nutrition       bool `json:"nutrition"`
	Hydration       bool `json:"hydration"`
	Movement        bool `json:"movement"`
	Sleep           bool `json:"sleep"`
	Relaxation      bool `json:"relaxation"`
	DigitalWellness bool `json:"digitalWellness"`
	OutdoorTime     bool `json:"outdoorTime"`
}

// Profile is the onboarding document persisted per user.
type Profile struct {
	Age           int           `json:"age"`
	HeightCM      float64       `json:"height"`
	WeightKG      float64       `json:"weight"`
	BMI           float64       `json:"bmi"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	WorkSchedule  WorkSchedule  `json:"workSchedule"`
	SleepSchedule SleepSchedule `json:"sleepSchedule"`
	Goals         []Goal        `json:"goals"`
	Preferences   Preferences   `json:"preferences"`

	// PlanModifications carries a free-text instruction attached to the
	// profile right before a regeneration call, then cleared. Never persisted.
	PlanModifications string `json:"-"`
}

// UpdateRequest is the onboarding payload accepted over HTTP.
type UpdateRequest struct {
	Age           int           `json:"age"`
	HeightCM      float64       `json:"height"`
	WeightKG      float64       `json:"weight"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	WorkSchedule  WorkSchedule  `json:"workSchedule"`
	SleepSchedule SleepSchedule `json:"sleepSchedule"`
	Goals         []Goal        `json:"goals"`
	Preferences   Preferences   `json:"preferences"`
}
