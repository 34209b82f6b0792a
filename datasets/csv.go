package datasets

import "encoding/csv"
import "io"
import "math"
import "strconv"

import "github.com/gocarina/gocsv"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "gonum.org/v1/gonum/mat"

// ReadCSV reads a table whose first row holds the column labels and whose
// first column holds the index labels.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := gocsv.LazyCSVReader(r).ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(err, "read csv")
	}
	if len(records) < 2 {
		return Table{}, errors.New("csv has no data rows")
	}
	header := records[0]
	if len(header) < 2 {
		return Table{}, errors.New("csv has no value columns")
	}
	rows, cols := len(records)-1, len(header)-1

	index := make([]string, rows)
	data := mat.NewDense(rows, cols, nil)
	for i, rec := range records[1:] {
		if len(rec) != cols+1 {
			return Table{}, errors.Wrapf(ErrShape, "line %d has %d fields, want %d", i+2, len(rec), cols+1)
		}
		index[i] = rec[0]
		row := data.RawRowView(i)
		for j, field := range rec[1:] {
			if field == "" {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Table{}, errors.Wrapf(err, "line %d column %q", i+2, header[j+1])
			}
			row[j] = v
		}
	}
	t, err := NewTable(index, append([]string(nil), header[1:]...), data)
	if err != nil {
		return Table{}, err
	}
	t.IndexName = header[0]
	return t, nil
}

// ReadCSVFile reads a table from name on fs.
func ReadCSVFile(fs afero.Fs, name string) (Table, error) {
	f, err := fs.Open(name)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	return t, errors.Wrap(err, name)
}

// WriteCSV writes t comma separated with a header row and the index as
// the first column.
func (t Table) WriteCSV(w io.Writer) error {
	out := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := out.Write(append([]string{t.IndexName}, t.Columns...)); err != nil {
		return errors.Wrap(err, "write header")
	}
	rec := make([]string, len(t.Columns)+1)
	for i, k := range t.Index {
		rec[0] = k
		for j, v := range t.Data.RawRowView(i) {
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := out.Write(rec); err != nil {
			return errors.Wrapf(err, "write row %q", k)
		}
	}
	out.Flush()
	return errors.Wrap(out.Error(), "flush csv")
}

// WriteCSVFile writes t to name on fs, replacing any existing file.
func (t Table) WriteCSVFile(fs afero.Fs, name string) error {
	f, err := fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	err = t.WriteCSV(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "close %s", name)
	}
	return err
}
