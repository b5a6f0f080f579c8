package model

import "fmt"

// Vehicle represents a car available to carry students.
type Vehicle struct {
	ID       int
	Capacity int // maximum number of occupants, driver included
}

// Validate checks that the vehicle configuration is sound.
// In particular Capacity must be positive.
func (v Vehicle) Validate() error {
	if v.Capacity <= 0 {
		return fmt.Errorf("vehicle %d: capacity must be positive, got %d", v.ID, v.Capacity)
	}
	return nil
}

// TotalCapacity sums the capacity of all vehicles.
func TotalCapacity(vehicles []Vehicle) int {
	total := 0
	for _, v := range vehicles {
		total += v.Capacity
	}
	return total
}
