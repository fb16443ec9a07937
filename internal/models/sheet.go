package models

// Row maps column name to cell value for one sheet row.
type Row map[string]Cell

// Cell returns the row's value for the column, or a missing cell when the
// column is absent from the row.
func (r Row) Cell(column string) Cell {
	if c, ok := r[column]; ok {
		return c
	}
	return MissingCell()
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	clone := make(Row, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Equal reports whether two rows hold identical cells for every listed
// column.
func (r Row) Equal(other Row, columns []string) bool {
	for _, col := range columns {
		if !r.Cell(col).Equal(other.Cell(col)) {
			return false
		}
	}
	return true
}

// Sheet is one rectangular table: an ordered column list plus ordered rows.
// Row identity is the 1-based position; deleting rows renumbers positions.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewSheet creates an empty sheet with the given name and columns.
func NewSheet(name string, columns []string) *Sheet {
	return &Sheet{
		Name:    name,
		Columns: columns,
		Rows:    make([]Row, 0),
	}
}

// HasColumn reports whether the sheet has a column with the given name.
func (s *Sheet) HasColumn(name string) bool {
	for _, col := range s.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Cell returns the cell at the 0-based row index and column name. Absent
// columns and out-of-range rows yield a missing cell.
func (s *Sheet) Cell(rowIdx int, column string) Cell {
	if rowIdx < 0 || rowIdx >= len(s.Rows) {
		return MissingCell()
	}
	return s.Rows[rowIdx].Cell(column)
}

// SetCell stores a value at the 0-based row index and column name. It
// reports false when the target does not exist; a sheet never grows columns
// through cell writes.
func (s *Sheet) SetCell(rowIdx int, column string, value Cell) bool {
	if rowIdx < 0 || rowIdx >= len(s.Rows) || !s.HasColumn(column) {
		return false
	}
	s.Rows[rowIdx][column] = value
	return true
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	clone := &Sheet{
		Name:    s.Name,
		Columns: append([]string(nil), s.Columns...),
		Rows:    make([]Row, 0, len(s.Rows)),
	}
	for _, row := range s.Rows {
		clone.Rows = append(clone.Rows, row.Clone())
	}
	return clone
}

// Head returns up to n leading rows, for previews.
func (s *Sheet) Head(n int) []Row {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[:n]
}

// Workbook is the full set of sheets from one uploaded file, in insertion
// order. A successful upload replaces the prior workbook wholesale.
type Workbook struct {
	Names  []string
	Sheets map[string]*Sheet
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		Names:  make([]string, 0),
		Sheets: make(map[string]*Sheet),
	}
}

// Add appends a sheet, replacing any prior sheet with the same name while
// keeping its original position.
func (w *Workbook) Add(sheet *Sheet) {
	if _, exists := w.Sheets[sheet.Name]; !exists {
		w.Names = append(w.Names, sheet.Name)
	}
	w.Sheets[sheet.Name] = sheet
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.Sheets[name]
	return s, ok
}

// First returns the first sheet in insertion order, or nil when the
// workbook is empty.
func (w *Workbook) First() *Sheet {
	if len(w.Names) == 0 {
		return nil
	}
	return w.Sheets[w.Names[0]]
}

// Resolve returns the named sheet when it exists, otherwise the first sheet
// in insertion order. An empty workbook resolves to nil.
func (w *Workbook) Resolve(name string) *Sheet {
	if name != "" {
		if s, ok := w.Sheets[name]; ok {
			return s
		}
	}
	return w.First()
}

// Len returns the number of sheets.
func (w *Workbook) Len() int {
	return len(w.Names)
}
