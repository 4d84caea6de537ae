package domain

// WalkerSummary aggregates a walker's completed walks and ratings.
//
// CompletedWalks counts distinct requests the walker holds an accepted
// application for and whose own status is completed. AverageRating is nil
// whenever TotalRatings is zero.
type WalkerSummary struct {
	WalkerUsername string   `json:"walker_username"`
	CompletedWalks int      `json:"completed_walks"`
	TotalRatings   int      `json:"total_ratings"`
	AverageRating  *float64 `json:"average_rating"`
}

// NewWalkerSummary builds a summary row. The average is dropped when there
// are no ratings, whatever the store returned for it.
func NewWalkerSummary(username string, completed, totalRatings int, average *float64) WalkerSummary {
	s := WalkerSummary{
		WalkerUsername: username,
		CompletedWalks: completed,
		TotalRatings:   totalRatings,
	}
	if totalRatings > 0 && average != nil {
		avg := *average
		s.AverageRating = &avg
	}
	return s
}
