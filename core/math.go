package core

import "math"

// MaxError is the initial upper bound before any tree has been found.
const MaxError = math.MaxFloat64

// errEpsilon is the tolerance used when comparing errors and bounds. Errors
// are counts of misclassified transactions expressed as float64, so any
// difference below 1e-9 is rounding noise.
const errEpsilon = 1e-9

// FloatIsNull reports whether v is zero up to the error comparison tolerance.
func FloatIsNull(v float64) bool {
	return math.Abs(v) < errEpsilon
}

// Entropy computes the Shannon entropy (base 2) of a class support
// distribution. An empty or all-zero distribution has zero entropy.
func Entropy(classSupports []int) float64 {
	support := 0
	for _, s := range classSupports {
		support += s
	}
	if support == 0 {
		return 0
	}

	entropy := 0.0
	for _, s := range classSupports {
		if s == 0 {
			continue
		}
		p := float64(s) / float64(support)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// ErrorFunc scores the class support distribution of a cover when it is
// turned into a leaf. It returns the leaf error and the predicted class.
type ErrorFunc interface {
	Compute(classSupports []int) (error float64, target int)
}

// ClassificationError is the misclassification objective: the leaf error is
// the cover support minus the majority class support, and the target is the
// majority class. Ties go to the lowest class index.
type ClassificationError struct{}

// Compute implements ErrorFunc.
func (ClassificationError) Compute(classSupports []int) (float64, int) {
	support, best, target := 0, 0, 0
	for class, s := range classSupports {
		support += s
		if s > best {
			best = s
			target = class
		}
	}
	return float64(support - best), target
}
