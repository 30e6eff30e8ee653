package rating

import "verideal_back_end/internal/models"

// FoldIn adds one rating to a running mean.
func FoldIn(s models.RatingState, rating int) models.RatingState {
	return models.RatingState{
		Rate:  (s.Rate*float64(s.Count) + float64(rating)) / float64(s.Count+1),
		Count: s.Count + 1,
	}
}

// FoldOut removes one rating from a running mean. The count never goes
// negative; a zero count means the aggregate should be dropped.
func FoldOut(s models.RatingState, rating int) models.RatingState {
	newCount := s.Count - 1
	if newCount <= 0 {
		return models.RatingState{}
	}
	return models.RatingState{
		Rate:  (s.Rate*float64(s.Count) - float64(rating)) / float64(newCount),
		Count: newCount,
	}
}
