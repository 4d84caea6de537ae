package domain

import "time"

// Walk request statuses.
const (
	WalkStatusOpen      = "open"
	WalkStatusAccepted  = "accepted"
	WalkStatusCompleted = "completed"
	WalkStatusCancelled = "cancelled"
)

// Walk application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// WalkRequest is an owner's request to have one dog walked.
type WalkRequest struct {
	ID              int64     `json:"request_id"`
	DogID           int64     `json:"dog_id"`
	OwnerID         int64     `json:"owner_id"`
	RequestedTime   time.Time `json:"requested_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsOpen reports whether the request still takes applications.
func (w *WalkRequest) IsOpen() bool { return w.Status == WalkStatusOpen }

// IsCompleted reports whether the walk took place.
func (w *WalkRequest) IsCompleted() bool { return w.Status == WalkStatusCompleted }

// OpenWalkRequest is an open request joined with its dog and owner.
type OpenWalkRequest struct {
	RequestID       int64     `json:"request_id"`
	DogName         string    `json:"dog_name"`
	RequestedTime   time.Time `json:"requested_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	OwnerUsername   string    `json:"owner_username"`
}

// WalkApplication is a walker's bid on a walk request.
type WalkApplication struct {
	ID        int64     `json:"application_id"`
	RequestID int64     `json:"request_id"`
	WalkerID  int64     `json:"walker_id"`
	AppliedAt time.Time `json:"applied_at"`
	Status    string    `json:"status"`
}

// WalkRating is an owner's score for the walker of a completed walk.
type WalkRating struct {
	ID        int64     `json:"rating_id"`
	RequestID int64     `json:"request_id"`
	WalkerID  int64     `json:"walker_id"`
	OwnerID   int64     `json:"owner_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	RatedAt   time.Time `json:"rated_at"`
}

// IsValidRating checks that score is within MinRating..MaxRating.
func IsValidRating(score int) bool {
	return score >= MinRating && score <= MaxRating
}
