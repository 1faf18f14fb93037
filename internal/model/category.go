package model

import "time"

// Category represents a known expense category in the training store.
type Category struct {
	CreatedAt time.Time
	Name      string
	ID        int
	RowCount  int // labeled training rows carrying this category
}
