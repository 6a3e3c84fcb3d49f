package course

import "math"

// SchoolAggregate summarizes the courses of one school.
type SchoolAggregate struct {
	School  string
	Courses int
	Mean    Percent
}

// AggregateBySchool groups records by school in first-seen order. Rows with
// an absent percent count as courses but are left out of the mean.
func AggregateBySchool(records []Record) []SchoolAggregate {
	type acc struct {
		courses int
		sum     float64
		present int
	}
	var order []string
	groups := map[string]*acc{}
	for _, r := range records {
		if r.School == "" {
			continue
		}
		g, ok := groups[r.School]
		if !ok {
			g = &acc{}
			groups[r.School] = g
			order = append(order, r.School)
		}
		g.courses++
		if r.Progress.Valid {
			g.sum += r.Progress.Value
			g.present++
		}
	}
	out := make([]SchoolAggregate, 0, len(order))
	for _, school := range order {
		g := groups[school]
		out = append(out, SchoolAggregate{School: school, Courses: g.courses, Mean: mean(g.sum, g.present)})
	}
	return out
}

// MeanProgress is the mean of all present percents.
func MeanProgress(records []Record) Percent {
	var sum float64
	n := 0
	for _, r := range records {
		if r.Progress.Valid {
			sum += r.Progress.Value
			n++
		}
	}
	return mean(sum, n)
}

func mean(sum float64, n int) Percent {
	if n == 0 {
		return Absent()
	}
	return PercentOf(sum / float64(n))
}

// Schools lists distinct non-blank schools in first-seen order.
func Schools(records []Record) []string {
	return distinct(records, func(Record) bool { return true }, func(r Record) string { return r.School })
}

// Departments lists the departments of school.
func Departments(records []Record, school string) []string {
	return distinct(records,
		func(r Record) bool { return r.School == school },
		func(r Record) string { return r.Department })
}

// Courses lists the course pathways of one department.
func Courses(records []Record, school, department string) []string {
	return distinct(records,
		func(r Record) bool { return r.School == school && r.Department == department },
		func(r Record) string { return r.CoursePathway })
}

// FindCourse returns the first record matching the selection.
func FindCourse(records []Record, school, department, course string) (Record, bool) {
	for _, r := range records {
		if r.School == school && r.Department == department && r.CoursePathway == course {
			return r, true
		}
	}
	return Record{}, false
}

func distinct(records []Record, keep func(Record) bool, key func(Record) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range records {
		if !keep(r) {
			continue
		}
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Readiness is a hand-maintained "ready of total" count for one school.
type Readiness struct {
	School string
	Total  int
	Ready  int
}

// Percent is ready/total as a percentage rounded to one decimal.
func (r Readiness) Percent() float64 {
	if r.Total <= 0 {
		return 0
	}
	return math.Round(float64(r.Ready)/float64(r.Total)*1000) / 10
}

// SummarizeReadiness totals all schools into one entry.
func SummarizeReadiness(items []Readiness) Readiness {
	sum := Readiness{School: "Overall"}
	for _, it := range items {
		sum.Total += it.Total
		sum.Ready += it.Ready
	}
	return sum
}
