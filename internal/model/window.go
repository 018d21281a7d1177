package model

import "time"

// OperatingWindow is a contiguous range of bookable hours. Start is
// inclusive, End exclusive: the last slot of a (10, 23) window is 22:00.
type OperatingWindow struct {
	Start int
	End   int
}

// Hours returns every bookable hour in the window, in order.
func (w OperatingWindow) Hours() []int {
	if w.End <= w.Start {
		return nil
	}
	hours := make([]int, 0, w.End-w.Start)
	for h := w.Start; h < w.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether hour falls inside the window.
func (w OperatingWindow) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// Slots returns the number of bookable hours in the window.
func (w OperatingWindow) Slots() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// IsSpringSeason reports whether the date falls in the venue's spring
// calendar, Aug 21 through Oct 31 inclusive.
func IsSpringSeason(date time.Time) bool {
	monthDay := int(date.Month())*100 + date.Day()
	return monthDay >= 821 && monthDay <= 1031
}

// ResolveWindow returns the operating hours for a date. Spring days open
// one hour earlier than the rest of the year.
func ResolveWindow(date time.Time) OperatingWindow {
	if IsSpringSeason(date) {
		return OperatingWindow{Start: 9, End: 23}
	}
	return OperatingWindow{Start: 10, End: 23}
}
