package assignment

import (
	"math"
	"math/rand"
	"testing"
)

func total(cost [][]float64, assign []int) float64 {
	var sum float64
	for _, v := range Matched(cost, assign) {
		sum += v
	}
	return sum
}

// bruteForce returns the optimal total for matching every row of a matrix
// with rows <= columns.
func bruteForce(cost [][]float64) float64 {
	rows := len(cost)
	cols := len(cost[0])
	best := math.Inf(1)
	used := make([]bool, cols)
	var walk func(i int, acc float64)
	walk = func(i int, acc float64) {
		if i == rows {
			best = math.Min(best, acc)
			return
		}
		for j := 0; j < cols; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			walk(i+1, acc+cost[i][j])
			used[j] = false
		}
	}
	walk(0, 0)
	return best
}

func transpose(cost [][]float64) [][]float64 {
	out := make([][]float64, len(cost[0]))
	for j := range out {
		out[j] = make([]float64, len(cost))
		for i := range cost {
			out[j][i] = cost[i][j]
		}
	}
	return out
}

func TestSolveKnownMatrix(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	assign := Solve(cost)
	if got := total(cost, assign); got != 5 {
		t.Errorf("total = %v, want 5 (assignment %v)", got, assign)
	}

	seen := map[int]bool{}
	for _, j := range assign {
		if j < 0 || seen[j] {
			t.Fatalf("assignment %v is not a permutation", assign)
		}
		seen[j] = true
	}
}

func TestSolveRectangular(t *testing.T) {
	wide := [][]float64{
		{0.9, 0.1, 0.5, 0.7},
		{0.2, 0.8, 0.6, 0.05},
	}
	assign := Solve(wide)
	if len(assign) != 2 {
		t.Fatalf("expected 2 row assignments, got %v", assign)
	}
	if got := total(wide, assign); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("wide total = %v, want 0.15", got)
	}

	tall := transpose(wide)
	assign = Solve(tall)
	if matched := Matched(tall, assign); len(matched) != 2 {
		t.Fatalf("expected 2 matched pairs, got %v", matched)
	}
	if got := total(tall, assign); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("tall total = %v, want 0.15", got)
	}
}

func TestSolveMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		rows := 1 + rng.Intn(5)
		cols := rows + rng.Intn(3)
		cost := make([][]float64, rows)
		for i := range cost {
			cost[i] = make([]float64, cols)
			for j := range cost[i] {
				cost[i][j] = rng.Float64()
			}
		}

		want := bruteForce(cost)
		if got := total(cost, Solve(cost)); math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d: total = %v, want %v", trial, got, want)
		}
		if got := total(transpose(cost), Solve(transpose(cost))); math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d transposed: total = %v, want %v", trial, got, want)
		}
	}
}

func TestSolveEmpty(t *testing.T) {
	if got := Solve(nil); got != nil {
		t.Errorf("Solve(nil) = %v", got)
	}
	if got := Solve([][]float64{{}, {}}); len(got) != 2 || got[0] != -1 || got[1] != -1 {
		t.Errorf("Solve of empty rows = %v", got)
	}
}
