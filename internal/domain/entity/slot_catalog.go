package entity

import (
	"fmt"
	"time"
)

// DefaultSlotTimes is the bookable day used when no catalog is configured.
var DefaultSlotTimes = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "16:00"}

// SlotCatalog is the ordered set of bookable start times shared by all therapists.
type SlotCatalog struct {
	times []string
	index map[string]struct{}
}

// NewSlotCatalog validates times as zero padded HH:MM without duplicates.
// A nil or empty list yields the default catalog.
func NewSlotCatalog(times []string) (*SlotCatalog, error) {
	if len(times) == 0 {
		times = DefaultSlotTimes
	}
	c := &SlotCatalog{
		times: make([]string, 0, len(times)),
		index: make(map[string]struct{}, len(times)),
	}
	for _, t := range times {
		if !IsSlotTime(t) {
			return nil, fmt.Errorf("invalid slot time %q", t)
		}
		if _, dup := c.index[t]; dup {
			return nil, fmt.Errorf("duplicate slot time %q", t)
		}
		c.index[t] = struct{}{}
		c.times = append(c.times, t)
	}
	return c, nil
}

// IsSlotTime reports whether s is a zero padded HH:MM clock time.
func IsSlotTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Times returns a copy of the catalog in order.
func (c *SlotCatalog) Times() []string {
	out := make([]string, len(c.times))
	copy(out, c.times)
	return out
}

func (c *SlotCatalog) Contains(t string) bool {
	_, ok := c.index[t]
	return ok
}

// Subtract splits the catalog by occupancy. Both results keep catalog order;
// occupied times outside the catalog are ignored.
func (c *SlotCatalog) Subtract(occupied []string) (available, booked []string) {
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}
	available = make([]string, 0, len(c.times))
	booked = make([]string, 0, len(occupied))
	for _, t := range c.times {
		if _, ok := taken[t]; ok {
			booked = append(booked, t)
			continue
		}
		available = append(available, t)
	}
	return available, booked
}
