package domain

import "errors"

var (
	ErrSlotNotFound         = errors.New("time slot not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrSlotFullyBooked      = errors.New("time slot is fully booked")
	ErrCapacityExhausted    = errors.New("time slot capacity exhausted")
	ErrStaleSlot            = errors.New("time slot modified concurrently")
	ErrInvalidCapacity      = errors.New("capacity must be positive")
	ErrInvalidTimeWindow    = errors.New("start time must be before end time")
	ErrCustomerNameRequired = errors.New("customer name cannot be empty")
	ErrInvalidCustomerEmail = errors.New("invalid email format")
	ErrInvalidDeliveryMode  = errors.New("invalid delivery mode")
	ErrInvalidID            = errors.New("invalid id")
)
