// Package anytime turns the exact solver into an anytime one: restart
// schedules grow a discrepancy budget across passes over a shared cache, so
// each pass either improves the incumbent tree or proves it optimal.
package anytime

import "math/bits"

// StepStrategy yields the discrepancy budget for each successive restart.
type StepStrategy interface {
	Next() int
}

// Monotonic grows the budget by a fixed increment per restart.
type Monotonic struct {
	increment int
	current   int
}

// NewMonotonic returns a schedule starting at zero and growing by increment.
func NewMonotonic(increment int) *Monotonic {
	return &Monotonic{increment: increment}
}

func (m *Monotonic) Next() int {
	value := m.current
	m.current += m.increment
	return value
}

// Exponential multiplies the budget by a fixed base per restart.
type Exponential struct {
	current int
	base    int
}

// NewExponential returns a schedule starting at one and growing by powers of
// base.
func NewExponential(base int) *Exponential {
	return &Exponential{current: 1, base: base}
}

func (e *Exponential) Next() int {
	value := e.current
	e.current *= e.base
	return value
}

// Luby grows the budget by the cumulative Luby sequence (1 1 2 1 1 2 4 ...)
// scaled by a multiplier, balancing many cheap restarts against occasional
// deep ones.
type Luby struct {
	multiplier int
	steps      []int
	current    int
	iter       int
}

// NewLuby returns a Luby schedule with the given step multiplier.
func NewLuby(multiplier int) *Luby {
	return &Luby{
		multiplier: multiplier,
		steps:      []int{1},
		current:    multiplier,
		iter:       1,
	}
}

func (l *Luby) Next() int {
	value := l.current
	l.iter++

	var increment int
	if n := l.iter + 1; n&(n-1) == 0 {
		increment = 1 << (bits.Len(uint(n)) - 2)
	} else {
		increment = l.steps[l.iter-(1<<(bits.Len(uint(l.iter))-1))]
	}

	l.steps = append(l.steps, increment)
	l.current += increment * l.multiplier
	return value
}
