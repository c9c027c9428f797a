package domain

import (
	"fmt"
	"sort"
)

// Months is a set of calendar months (1..12).
// A nil Months means "no restriction" where the model allows it (Club.RentalMonths).
type Months []int

// Validate checks that every month is in 1..12 and there are no duplicates
func (m Months) Validate() error {
	seen := make(map[int]struct{}, len(m))
	for _, month := range m {
		if month < MinMonth || month > MaxMonth {
			return fmt.Errorf("month %d is out of range 1..12", month)
		}
		if _, ok := seen[month]; ok {
			return fmt.Errorf("month %d is duplicated", month)
		}
		seen[month] = struct{}{}
	}
	return nil
}

// Contains reports whether the set has the month
func (m Months) Contains(month int) bool {
	for _, v := range m {
		if v == month {
			return true
		}
	}
	return false
}

// Sorted returns a sorted, deduplicated copy. nil stays nil.
func (m Months) Sorted() Months {
	if m == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(m))
	out := make(Months, 0, len(m))
	for _, v := range m {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Intersect returns the months present in both sets, ascending.
// The result is never nil.
func (m Months) Intersect(other Months) Months {
	out := make(Months, 0, len(m))
	for _, v := range m.Sorted() {
		if other.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// MonthsFromInt64 converts a postgres integer array. nil stays nil.
func MonthsFromInt64(values []int64) Months {
	if values == nil {
		return nil
	}
	out := make(Months, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

// Int64s converts the set to a postgres-friendly slice. nil stays nil.
func (m Months) Int64s() []int64 {
	if m == nil {
		return nil
	}
	out := make([]int64, len(m))
	for i, v := range m {
		out[i] = int64(v)
	}
	return out
}
