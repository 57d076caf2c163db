// Package slots enumerates the bookable clinic time grid: 30-minute slots
// from 09:00 up to and including 16:30, so the last visit ends at 17:00.
package slots

import "fmt"

const (
	openingHour = 9
	closingHour = 17
	stepMinutes = 30
)

// All returns every valid slot start time as "HH:MM", in order.
func All() []string {
	var all []string
	for h := openingHour; h < closingHour; h++ {
		for m := 0; m < 60; m += stepMinutes {
			all = append(all, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return all
}

// Valid reports whether t is one of the clinic's slot start times.
func Valid(t string) bool {
	for _, s := range All() {
		if s == t {
			return true
		}
	}
	return false
}

// Available returns the slots not present in busy, preserving grid order.
func Available(busy []string) []string {
	occupied := make(map[string]struct{}, len(busy))
	for _, b := range busy {
		occupied[b] = struct{}{}
	}

	var free []string
	for _, s := range All() {
		if _, ok := occupied[s]; !ok {
			free = append(free, s)
		}
	}
	return free
}
