package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// readOptions configure dataset loading.
type readOptions struct {
	shuffle bool
	seed    int64
	split   float64
}

// ReadOption configures ReadFile and Read.
type ReadOption func(*readOptions)

// WithShuffle shuffles rows before splitting, using the given seed so runs
// stay reproducible.
func WithShuffle(seed int64) ReadOption {
	return func(o *readOptions) {
		o.shuffle = true
		o.seed = seed
	}
}

// WithSplit reserves the given fraction of rows (after shuffling, if enabled)
// as a test set, returned by ReadFile's second value.
func WithSplit(fraction float64) ReadOption {
	return func(o *readOptions) {
		o.split = fraction
	}
}

// ReadFile loads a whitespace-delimited dataset file. The first column is the
// integer class label, the remaining columns are binary feature values.
// Files ending in .gz or .lz4 are decompressed transparently. The second
// return value is the test split, nil unless WithSplit is used.
func ReadFile(path string, optFns ...ReadOption) (*Dataset, *Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	train, test, err := ReadSource(f, filepath.Base(path), optFns...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return train, test, nil
}

// ReadSource loads a dataset from r, decompressing .gz and .lz4 streams
// based on the extension of name.
func ReadSource(r io.Reader, name string, optFns ...ReadOption) (*Dataset, *Dataset, error) {
	switch filepath.Ext(name) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip input: %w", err)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, ".gz")
	case ".lz4":
		r = lz4.NewReader(r)
		name = strings.TrimSuffix(name, ".lz4")
	}
	return Read(r, name, optFns...)
}

// Read loads a dataset from r. See ReadFile for the format.
func Read(r io.Reader, name string, optFns ...ReadOption) (*Dataset, *Dataset, error) {
	opts := readOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var (
		features [][]int
		labels   []int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, &ErrMalformedRow{Row: row, Reason: "need a class label and at least one feature"}
		}

		label, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, &ErrMalformedRow{Row: row, Reason: fmt.Sprintf("invalid class label %q", fields[0]), cause: err}
		}

		values := make([]int, len(fields)-1)
		for i, field := range fields[1:] {
			v, err := strconv.Atoi(field)
			if err != nil || (v != 0 && v != 1) {
				return nil, nil, &ErrMalformedRow{Row: row, Reason: fmt.Sprintf("non-binary feature value %q", field), cause: err}
			}
			values[i] = v
		}

		features = append(features, values)
		labels = append(labels, label)
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	if opts.shuffle {
		rand.New(rand.NewSource(opts.seed)).Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	testSize := int(float64(len(order)) * opts.split)
	build := func(tids []int) (*Dataset, error) {
		f := make([][]int, len(tids))
		l := make([]int, len(tids))
		for i, tid := range tids {
			f[i] = features[tid]
			l[i] = labels[tid]
		}
		d, err := FromMatrix(f, l)
		if err != nil {
			return nil, err
		}
		d.name = name
		return d, nil
	}

	train, err := build(order[testSize:])
	if err != nil {
		return nil, nil, err
	}

	var test *Dataset
	if testSize >= 1 {
		test, err = build(order[:testSize])
		if err != nil {
			return nil, nil, err
		}
		test.growClasses(train.numClasses)
		train.growClasses(test.numClasses)
	}

	return train, test, nil
}
