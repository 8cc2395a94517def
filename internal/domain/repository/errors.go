package repository

import "errors"

var (
	// ErrActiveSlotTaken is returned when an insert would give a slot a second active booking.
	ErrActiveSlotTaken = errors.New("slot already has an active booking")
	ErrDuplicate       = errors.New("record already exists")
)
