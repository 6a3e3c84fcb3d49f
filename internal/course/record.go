package course

import (
	"strings"
	"time"
)

// Column names of the course sheets, after header trimming.
const (
	ColSchool                = "School"
	ColDepartment            = "Department"
	ColCoursePathway         = `Course \ pathway`
	ColDevelopmentStage      = "Development Stage"
	ColDepartmentHead        = "Dept. Head"
	ColSubjectMatterExperts  = "SMEs"
	ColInstructionalDesigner = "ID"
	ColProgress              = "Progress %"
)

// Record is one course row. Missing descriptive columns read as "".
type Record struct {
	School                string
	Department            string
	CoursePathway         string
	DevelopmentStage      string
	DepartmentHead        string
	SubjectMatterExperts  string
	InstructionalDesigner string
	Progress              Percent

	cells map[string]string
}

// Value returns the raw cell of column, or nil when the dataset has no such
// column.
func (r Record) Value(column string) any {
	v, ok := r.cells[column]
	if !ok {
		return nil
	}
	return v
}

// Dataset is an immutable, fully normalized sheet.
type Dataset struct {
	Source    string
	FetchedAt time.Time
	Columns   []string
	Records   []Record
	Tasks     TaskColumnSpec
}

// NewDataset builds records from a cleaned header and its rows. Rows shorter
// than the header are padded with blanks; extra cells are dropped.
func NewDataset(source string, columns []string, rows [][]string) *Dataset {
	d := &Dataset{
		Source:    source,
		FetchedAt: time.Now(),
		Columns:   append([]string(nil), columns...),
		Records:   make([]Record, 0, len(rows)),
		Tasks:     DiscoverTaskColumns(columns),
	}
	for _, row := range rows {
		cells := make(map[string]string, len(columns))
		for i, c := range columns {
			if i < len(row) {
				cells[c] = row[i]
			} else {
				cells[c] = ""
			}
		}
		d.Records = append(d.Records, newRecord(cells))
	}
	return d
}

func newRecord(cells map[string]string) Record {
	text := func(col string) string { return strings.TrimSpace(cells[col]) }
	return Record{
		School:                text(ColSchool),
		Department:            text(ColDepartment),
		CoursePathway:         text(ColCoursePathway),
		DevelopmentStage:      text(ColDevelopmentStage),
		DepartmentHead:        text(ColDepartmentHead),
		SubjectMatterExperts:  text(ColSubjectMatterExperts),
		InstructionalDesigner: text(ColInstructionalDesigner),
		Progress:              NormalizePercent(cellOrNil(cells, ColProgress)),
		cells:                 cells,
	}
}

func cellOrNil(cells map[string]string, col string) any {
	v, ok := cells[col]
	if !ok {
		return nil
	}
	return v
}

// TaskTable is BuildTaskTable with the dataset's own task spec.
func (d *Dataset) TaskTable(r Record) []Task {
	return BuildTaskTable(r, d.Tasks)
}
