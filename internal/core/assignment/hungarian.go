// Package assignment solves the minimum-cost assignment problem.
package assignment

import "math"

// Solve finds a minimum-cost one-to-one assignment between the rows and
// columns of cost using the Hungarian algorithm with potentials. Rectangular
// matrices are padded to square with zero-cost cells, so exactly
// min(rows, columns) real pairs are matched.
//
// The returned slice has one entry per row: the chosen column, or -1 when the
// row was matched to padding. Ties are broken deterministically but only the
// total cost is guaranteed to be optimal.
func Solve(cost [][]float64) []int {
	rows := len(cost)
	if rows == 0 {
		return nil
	}
	cols := 0
	for _, row := range cost {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		assign := make([]int, rows)
		for i := range assign {
			assign[i] = -1
		}
		return assign
	}

	n := max(rows, cols)
	at := func(i, j int) float64 {
		if i < rows && j < len(cost[i]) {
			return cost[i][j]
		}
		return 0
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := at(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	assign := make([]int, rows)
	for i := range assign {
		assign[i] = -1
	}
	for j := 1; j <= n; j++ {
		i := p[j] - 1
		if i >= 0 && i < rows && j-1 < len(cost[i]) {
			assign[i] = j - 1
		}
	}
	return assign
}

// Matched returns the cost of every real pair in assign, in row order.
func Matched(cost [][]float64, assign []int) []float64 {
	values := make([]float64, 0, len(assign))
	for i, j := range assign {
		if j < 0 {
			continue
		}
		values = append(values, cost[i][j])
	}
	return values
}
