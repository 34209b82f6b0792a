package datasets

import "math/rand/v2"

import "github.com/pkg/errors"

// Split holds disjoint row positions for training, validation and test.
type Split struct {
	Train []int
	Valid []int
	Test  []int
}

// SplitIndices shuffles 0..n-1 with seed and cuts off the validation and
// test fractions. Each of the three parts gets at least one row.
func SplitIndices(n int, validFraction, testFraction float64, seed uint64) (Split, error) {
	if validFraction <= 0 || testFraction < 0 || validFraction+testFraction >= 1 {
		return Split{}, errors.Errorf("invalid split fractions valid=%v test=%v", validFraction, testFraction)
	}
	nValid := int(float64(n) * validFraction)
	nTest := int(float64(n) * testFraction)
	if nValid == 0 {
		nValid = 1
	}
	if nTest == 0 && testFraction > 0 {
		nTest = 1
	}
	if n-nValid-nTest < 1 {
		return Split{}, errors.Errorf("%d rows are too few to split", n)
	}

	perm := rand.New(rand.NewPCG(seed, ^seed)).Perm(n)
	return Split{
		Valid: perm[:nValid],
		Test:  perm[nValid : nValid+nTest],
		Train: perm[nValid+nTest:],
	}, nil
}
