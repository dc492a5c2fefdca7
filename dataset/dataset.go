// Package dataset loads and splits the tab-separated regression datasets
// consumed by the estimators in this module.
//
// The file format is a header line with the sample count and feature count,
// followed by one line per sample holding the target value and then the
// feature values:
//
//	N<TAB>M
//	y0<TAB>x00<TAB>x01...<TAB>x0(M-1)
//	...
//	y(N-1)<TAB>...
package dataset

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/pkg/errors"
)

// Dataset holds a feature matrix paired with a target column vector.
// Row i of X corresponds to Y.At(i, 0).
type Dataset struct {
	X *mat.Dense // NSamples x NFeatures
	Y *mat.Dense // NSamples x 1
}

// Dims returns the sample and feature counts.
func (d *Dataset) Dims() (samples, features int) {
	return d.NSamples(), d.NFeatures()
}

// NSamples returns the number of rows.
func (d *Dataset) NSamples() int {
	if d == nil || d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// NFeatures returns the number of feature columns.
func (d *Dataset) NFeatures() int {
	if d == nil || d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// Subset returns a new dataset containing only the given sample rows.
// Indices are copied and sorted so the subset keeps the original row order.
func (d *Dataset) Subset(indices []int) *Dataset {
	if len(indices) == 0 {
		return &Dataset{X: &mat.Dense{}, Y: &mat.Dense{}}
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	_, cols := d.X.Dims()
	X := mat.NewDense(len(sorted), cols, nil)
	Y := mat.NewDense(len(sorted), 1, nil)
	for i, idx := range sorted {
		for j := 0; j < cols; j++ {
			X.Set(i, j, d.X.At(idx, j))
		}
		Y.Set(i, 0, d.Y.At(idx, 0))
	}
	return &Dataset{X: X, Y: Y}
}

// Load reads a dataset from a file on disk.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: failed to open %s", path)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a dataset from an io.Reader.
//
// The header must declare positive sample and feature counts, every data
// row must carry exactly one target plus the declared number of features,
// and the number of data rows must match the header. Blank lines are
// skipped. Values are separated by tabs; any run of whitespace is
// accepted.
func Read(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	// Rows with many features exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "dataset: failed to read header")
		}
		return nil, errors.New("dataset: empty input")
	}

	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, errors.Newf("dataset: malformed header %q, want two tab-separated integers", scanner.Text())
	}
	nSamples, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: invalid sample count %q", header[0])
	}
	nFeatures, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: invalid feature count %q", header[1])
	}
	if nSamples <= 0 || nFeatures <= 0 {
		return nil, errors.Newf("dataset: header declares %d samples and %d features, both must be positive", nSamples, nFeatures)
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	Y := mat.NewDense(nSamples, 1, nil)

	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if row >= nSamples {
			return nil, errors.Newf("dataset: more data rows than the %d declared in the header", nSamples)
		}

		fields := strings.Fields(line)
		if len(fields) != nFeatures+1 {
			return nil, errors.Newf("dataset: row %d has %d values, want %d (target + %d features)", row, len(fields), nFeatures+1, nFeatures)
		}

		target, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d: invalid target %q", row, fields[0])
		}
		Y.Set(row, 0, target)

		for j := 0; j < nFeatures; j++ {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset: row %d, feature %d: invalid value %q", row, j, fields[j+1])
			}
			X.Set(row, j, v)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "dataset: read failed")
	}
	if row != nSamples {
		return nil, errors.Newf("dataset: got %d data rows, header declares %d", row, nSamples)
	}

	return &Dataset{X: X, Y: Y}, nil
}
