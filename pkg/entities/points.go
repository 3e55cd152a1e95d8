package entities

// PointsEntry is a user's durable running points total.
type PointsEntry struct {
	// UserID is the ID of the user.
	UserID string `json:"user_id" bson:"user_id"`

	// Points is the running total. Never negative.
	Points int64 `json:"points" bson:"points"`
}
