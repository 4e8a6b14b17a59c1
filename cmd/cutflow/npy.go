package main

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// readMatrix loads a 1-d or 2-d float64 array. A 1-d array becomes a
// single column.
func readMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header of %s: %w", path, err)
	}

	if len(r.Header.Descr.Shape) == 1 {
		var values []float64
		if err := r.Read(&values); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%s holds no values", path)
		}
		return mat.NewDense(len(values), 1, values), nil
	}

	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return m, nil
}

// writeNpy writes a slice or matrix to path.
func writeNpy(path string, val interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := npyio.Write(f, val); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
