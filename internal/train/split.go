package train

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split partitions row indices into train and held-out sets. The held-out
// set targets testFraction of the rows but never fewer rows than the
// number of distinct classes, so every class can appear in evaluation
// where data volume allows. A stratified split is attempted first; when a
// class is too small to stratify, the split falls back to a plain random
// partition.
func Split(y []int, numClasses int, testFraction float64, seed int64) (trainIdx, testIdx []int, err error) {
	n := len(y)
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, have %d", n)
	}

	testSize := int(testFraction * float64(n))
	if testSize < numClasses {
		testSize = numClasses
	}
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}

	rng := rand.New(rand.NewSource(seed))

	trainIdx, testIdx, ok := stratified(y, numClasses, testSize, rng)
	if ok {
		return trainIdx, testIdx, nil
	}

	// Fallback: unstratified random split.
	perm := rng.Perm(n)
	testIdx = append([]int(nil), perm[:testSize]...)
	trainIdx = append([]int(nil), perm[testSize:]...)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, fmt.Errorf("degenerate split over %d rows", n)
	}
	return trainIdx, testIdx, nil
}

// stratified draws held-out rows class by class, proportional to class
// size. It reports failure when any class has fewer than two examples,
// since such a class cannot appear on both sides of the split.
func stratified(y []int, numClasses, testSize int, rng *rand.Rand) (trainIdx, testIdx []int, ok bool) {
	byClass := make([][]int, numClasses)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	for _, members := range byClass {
		if len(members) > 0 && len(members) < 2 {
			return nil, nil, false
		}
	}

	// Per-class quotas proportional to class size, largest-remainder
	// rounding so the quotas actually sum to testSize. Every non-empty
	// class draws at least one row and leaves at least one for training.
	n := len(y)
	want := make([]int, numClasses)
	frac := make([]float64, numClasses)
	taken := 0
	for k, members := range byClass {
		if len(members) == 0 {
			continue
		}
		exact := float64(testSize) * float64(len(members)) / float64(n)
		want[k] = int(exact)
		frac[k] = exact - float64(want[k])
		if want[k] < 1 {
			want[k] = 1
			frac[k] = 0
		}
		if want[k] >= len(members) {
			want[k] = len(members) - 1
			frac[k] = 0
		}
		taken += want[k]
	}

	order := make([]int, 0, numClasses)
	for k, members := range byClass {
		if len(members) > 0 {
			order = append(order, k)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return frac[order[i]] > frac[order[j]]
	})
	for taken < testSize {
		grew := false
		for _, k := range order {
			if taken == testSize {
				break
			}
			if want[k] < len(byClass[k])-1 {
				want[k]++
				taken++
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	if taken == 0 || taken == n {
		return nil, nil, false
	}

	inTest := make([]bool, n)
	for k, members := range byClass {
		if len(members) == 0 {
			continue
		}
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		for _, idx := range members[:want[k]] {
			inTest[idx] = true
		}
	}

	for i := 0; i < n; i++ {
		if inTest[i] {
			testIdx = append(testIdx, i)
		} else {
			trainIdx = append(trainIdx, i)
		}
	}
	return trainIdx, testIdx, true
}
