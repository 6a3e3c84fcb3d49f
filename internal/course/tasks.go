package course

import (
	"fmt"
	"strings"
)

// maxStages is the number of stage triples the course sheets are laid out
// for. Extra repeated columns beyond the third triple are ignored.
const maxStages = 3

var stageBases = []string{"Content", "Scripts", "Video Shooting"}

// TaskColumn binds a display label to the column holding its flag.
// Column is empty when the dataset has no such column.
type TaskColumn struct {
	Label  string
	Column string
}

func (t TaskColumn) Bound() bool { return t.Column != "" }

// TaskColumnSpec is the ordered task list of one dataset.
type TaskColumnSpec []TaskColumn

// Task is one row of a course's status table.
type Task struct {
	Label string
	Done  bool
}

// DiscoverTaskColumns derives the task list from a dataset header. It
// supports the stage-triple layout (Content, Scripts, Video Shooting,
// repeated with .1/.2 suffixes) and the legacy M1..M4 module layout.
func DiscoverTaskColumns(columns []string) TaskColumnSpec {
	b := bucketColumns(columns)

	var spec TaskColumnSpec
	for _, label := range []string{"Course Structure", "Detailed Outline"} {
		if col, ok := b.exact(label); ok {
			spec = append(spec, TaskColumn{Label: label, Column: col})
		}
	}

	stages := 0
	for _, base := range stageBases {
		stages = max(stages, len(b.like(base)))
	}
	stages = min(maxStages, stages)
	for i := 0; i < stages; i++ {
		for _, base := range stageBases {
			spec = append(spec, TaskColumn{
				Label:  fmt.Sprintf("Stage %d - %s", i+1, base),
				Column: at(b.like(base), i),
			})
		}
	}
	if stages == 0 {
		spec = append(spec, legacyModules(b)...)
	}

	impl, _ := b.exact("Implementation")
	return append(spec, TaskColumn{Label: "Implementation", Column: impl})
}

// legacyModules covers the fixed Spring layout where M1..M4 hold detailed
// content and M1.1..M4.1 hold media production.
func legacyModules(b columnBuckets) TaskColumnSpec {
	found := false
	for n := 1; n <= 4; n++ {
		if len(b.like(fmt.Sprintf("M%d", n))) > 0 {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	var out TaskColumnSpec
	for n := 1; n <= 4; n++ {
		col, _ := b.exact(fmt.Sprintf("M%d", n))
		out = append(out, TaskColumn{Label: fmt.Sprintf("Detailed Content - M%d", n), Column: col})
	}
	for n := 1; n <= 4; n++ {
		col, _ := b.exact(fmt.Sprintf("M%d.1", n))
		out = append(out, TaskColumn{Label: fmt.Sprintf("Media Production - M%d", n), Column: col})
	}
	return out
}

// columnBuckets groups header names by lower-cased base name; "Content",
// "content.1" and "Content.2" all land in bucket "content", in header order.
type columnBuckets struct {
	byName map[string]string
	byBase map[string][]string
}

func bucketColumns(columns []string) columnBuckets {
	b := columnBuckets{byName: map[string]string{}, byBase: map[string][]string{}}
	for _, c := range columns {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		if _, dup := b.byName[key]; !dup {
			b.byName[key] = c
		}
		base := key
		if i := strings.Index(key, "."); i > 0 {
			base = key[:i]
		}
		b.byBase[base] = append(b.byBase[base], c)
	}
	return b
}

func (b columnBuckets) exact(name string) (string, bool) {
	c, ok := b.byName[strings.ToLower(name)]
	return c, ok
}

// like returns the columns named base or base.<anything>.
func (b columnBuckets) like(base string) []string {
	return b.byBase[strings.ToLower(base)]
}

func at(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

// BuildTaskTable evaluates spec against one record. Unbound tasks and
// missing cells are not done.
func BuildTaskTable(r Record, spec TaskColumnSpec) []Task {
	out := make([]Task, 0, len(spec))
	for _, tc := range spec {
		done := false
		if tc.Bound() {
			done = NormalizeBoolean(r.Value(tc.Column))
		}
		out = append(out, Task{Label: tc.Label, Done: done})
	}
	return out
}
