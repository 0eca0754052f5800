// ABOUTME: Request and response types for the Firefly API
// ABOUTME: Field names follow the backend's JSON contract

package client

import "time"

// TokenPair is the credential pair returned by login, register-login, and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// User represents the authenticated user as returned by /auth/me
type User struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	DisplayName      string   `json:"display_name"`
	CreatedAt        string   `json:"created_at"`
	IsActive         bool     `json:"is_active"`
	IsPremium        bool     `json:"is_premium"`
	SubscriptionTier string   `json:"subscription_tier"`
	HasADHD          bool     `json:"has_adhd"`
	HasAutism        bool     `json:"has_autism_spectrum"`
	HasAnxiety       bool     `json:"has_anxiety"`
	HasDepression    bool     `json:"has_depression"`
	OtherConditions  []string `json:"other_conditions"`
	Timezone         string   `json:"timezone"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayName   string `json:"display_name,omitempty"`
	HasADHD       bool   `json:"has_adhd"`
	HasAutism     bool   `json:"has_autism_spectrum"`
	HasAnxiety    bool   `json:"has_anxiety"`
	HasDepression bool   `json:"has_depression"`
}

// RefreshRequest is the payload for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CheckinCreate is the payload for POST /checkins/
type CheckinCreate struct {
	MoodScore       int      `json:"mood_score"`
	EnergyLevel     int      `json:"energy_level"`
	AnxietyLevel    *int     `json:"anxiety_level,omitempty"`
	StressLevel     *int     `json:"stress_level,omitempty"`
	EmotionTags     []string `json:"emotion_tags"`
	ContextLocation string   `json:"context_location,omitempty"`
	ContextActivity string   `json:"context_activity,omitempty"`
	ContextSocial   string   `json:"context_social,omitempty"`
	JournalText     string   `json:"journal_text,omitempty"`
}

// Checkin is a recorded mood check-in
type Checkin struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
	MoodScore        int       `json:"mood_score"`
	EnergyLevel      int       `json:"energy_level"`
	AnxietyLevel     *int      `json:"anxiety_level"`
	StressLevel      *int      `json:"stress_level"`
	EmotionTags      []string  `json:"emotion_tags"`
	ContextLocation  string    `json:"context_location"`
	ContextActivity  string    `json:"context_activity"`
	ContextSocial    string    `json:"context_social"`
	JournalText      string    `json:"journal_text"`
	AIEmotionPrimary string    `json:"ai_emotion_primary"`
	CrisisRiskScore  float64   `json:"crisis_risk_score"`
	CrisisFlagged    bool      `json:"crisis_flagged"`
}

// Recommendation is one suggested intervention attached to a check-in response
type Recommendation struct {
	InterventionID         string  `json:"intervention_id"`
	Name                   string  `json:"name"`
	ShortDescription       string  `json:"short_description"`
	DurationSeconds        int     `json:"duration_seconds"`
	EffortLevel            string  `json:"effort_level"`
	WhyRecommended         string  `json:"why_recommended"`
	PredictedEffectiveness float64 `json:"predicted_effectiveness"`
}

// CheckinResult is the full response to creating a check-in.
// CrisisAlert drives the wizard's terminal branching.
type CheckinResult struct {
	Checkin         Checkin          `json:"checkin"`
	Recommendations []Recommendation `json:"recommendations"`
	CrisisAlert     bool             `json:"crisis_alert"`
	CrisisResources *CrisisResources `json:"crisis_resources"`
}

// CheckinList is a page of check-in history
type CheckinList struct {
	Checkins []Checkin `json:"checkins"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// CheckinStats summarizes check-in history for the dashboard
type CheckinStats struct {
	StreakLength      int      `json:"streak_length"`
	AverageMood7Days  *float64 `json:"average_mood_7_days"`
	AverageMood30Days *float64 `json:"average_mood_30_days"`
	MoodTrend         string   `json:"mood_trend"`
	TotalCheckins     int      `json:"total_checkins"`
}

// Intervention is one guided exercise from the library
type Intervention struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	ShortDescription     string   `json:"short_description"`
	DetailedInstructions string   `json:"detailed_instructions"`
	DurationSeconds      int      `json:"duration_seconds"`
	EffortLevel          string   `json:"effort_level"`
	EnergyRequired       string   `json:"energy_required"`
	TherapeuticApproach  string   `json:"therapeutic_approach"`
	TargetEmotions       []string `json:"target_emotions"`
	IsPremium            bool     `json:"is_premium"`
	ADHDFriendly         bool     `json:"adhd_friendly"`
	ASDFriendly          bool     `json:"asd_friendly"`
	AverageRating        float64  `json:"average_rating"`
}

// InterventionFilter narrows the intervention library listing
type InterventionFilter struct {
	TherapeuticApproach string
	MaxDurationSeconds  int
	TargetEmotion       string
}

// SessionStart is the payload for POST /interventions/sessions
type SessionStart struct {
	InterventionID string    `json:"intervention_id"`
	CheckinID      string    `json:"checkin_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	ContextEmotion string    `json:"context_emotion,omitempty"`
}

// SessionComplete is the payload for POST /interventions/sessions/{id}/complete
type SessionComplete struct {
	CompletedAt         time.Time `json:"completed_at"`
	WasCompleted        bool      `json:"was_completed"`
	EffectivenessRating *int      `json:"effectiveness_rating,omitempty"`
	FeedbackText        string    `json:"feedback_text,omitempty"`
}

// InterventionSession is one timed attempt at an intervention
type InterventionSession struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	InterventionID      string     `json:"intervention_id"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	WasCompleted        bool       `json:"was_completed"`
	WasSkipped          bool       `json:"was_skipped"`
	EffectivenessRating *int       `json:"effectiveness_rating"`
	FeedbackText        string     `json:"feedback_text"`
	ContextEmotion      string     `json:"context_emotion"`
}

// Hotline is one crisis support contact
type Hotline struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// CrisisResources is the safety information shown during a crisis alert
type CrisisResources struct {
	Hotlines       []Hotline `json:"hotlines"`
	Message        string    `json:"message"`
	SafeNowOptions []string  `json:"safe_now_options"`
}

// CrisisReport is the response to a self-reported crisis
type CrisisReport struct {
	Message       string          `json:"message"`
	Resources     CrisisResources `json:"resources"`
	CrisisEventID string          `json:"crisis_event_id"`
}
