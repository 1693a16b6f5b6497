package domain

import "time"

// CatalogEntry is a record in the exercise-name library. The draft engine only
// ever stores the entry's ID as an opaque reference on an exercise item.
type CatalogEntry struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Type      string    `bson:"type,omitempty" json:"type,omitempty"` // e.g. "weighted", "bodyweight", "duration"
	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
