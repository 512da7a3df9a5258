package eventbus

// Auth lifecycle events. Each drives a local state transition: signed-in
// updates last-login bookkeeping, the rest feed the audit log.
const (
	EventSignedIn         EventType = "auth.signed_in"
	EventSignedOut        EventType = "auth.signed_out"
	EventTokenRefreshed   EventType = "auth.token_refreshed"
	EventUserUpdated      EventType = "auth.user_updated"
	EventPasswordRecovery EventType = "auth.password_recovery"
)

// EventGoalCompleted fires once when a savings transaction pushes a goal to
// its target amount.
const EventGoalCompleted EventType = "goal.completed"

// AuthEvent is the payload for all auth lifecycle events.
type AuthEvent struct {
	UserID string
	Email  string
}

// GoalCompletedEvent is the payload for EventGoalCompleted.
type GoalCompletedEvent struct {
	UserID        string
	GoalID        string
	Title         string
	AchievementID string
}
