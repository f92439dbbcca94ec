package pool

import (
	"sync"
)

// MatrixPool implements a pool of float64 backing buffers for cost matrices
type MatrixPool struct {
	pool sync.Pool
	size int
}

// Matrix is a row-major view over a pooled buffer
type Matrix struct {
	Rows   [][]float64
	buffer *[]float64
}

// NewMatrixPool creates a new pool whose fresh buffers hold size cells
func NewMatrixPool(size int) *MatrixPool {
	return &MatrixPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]float64, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get returns a zeroed rows x cols matrix backed by a pooled buffer
func (mp *MatrixPool) Get(rows, cols int) *Matrix {
	buffer := mp.pool.Get().(*[]float64)
	cells := rows * cols
	if cap(*buffer) < cells {
		*buffer = make([]float64, cells)
	} else {
		*buffer = (*buffer)[:cells]
		clear(*buffer)
	}

	m := &Matrix{
		Rows:   make([][]float64, rows),
		buffer: buffer,
	}
	for i := range m.Rows {
		m.Rows[i] = (*buffer)[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// Put returns the matrix buffer to the pool for reuse
func (mp *MatrixPool) Put(m *Matrix) {
	if m == nil || m.buffer == nil {
		return
	}
	// Reset buffer length but keep capacity
	*m.buffer = (*m.buffer)[:0]
	mp.pool.Put(m.buffer)
	m.buffer = nil
	m.Rows = nil
}
