package models

// Dashboard aggregates counts and short lists over the caller's systems.
type Dashboard struct {
	SystemCount      int        `json:"systemCount"`
	PendingDecisions int        `json:"pendingDecisions"`
	ActivePoints     int        `json:"activePoints"`
	CompletedPoints  int        `json:"completedPoints"`
	UpcomingMeetings []*Meeting `json:"upcomingMeetings"`
	RecentActivity   []*Point   `json:"recentActivity"`
}
