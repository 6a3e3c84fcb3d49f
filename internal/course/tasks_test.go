package course

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiscoverTaskColumns_StageTriples(t *testing.T) {
	cols := []string{
		"School", "Course Structure", "Detailed Outline",
		"Content", "Scripts", "Video Shooting",
		"Content.1", "Scripts.1", "Video Shooting.1",
		"Content.2", "Scripts.2", "Video Shooting.2",
		"Implementation", "Progress %",
	}
	want := TaskColumnSpec{
		{"Course Structure", "Course Structure"},
		{"Detailed Outline", "Detailed Outline"},
		{"Stage 1 - Content", "Content"},
		{"Stage 1 - Scripts", "Scripts"},
		{"Stage 1 - Video Shooting", "Video Shooting"},
		{"Stage 2 - Content", "Content.1"},
		{"Stage 2 - Scripts", "Scripts.1"},
		{"Stage 2 - Video Shooting", "Video Shooting.1"},
		{"Stage 3 - Content", "Content.2"},
		{"Stage 3 - Scripts", "Scripts.2"},
		{"Stage 3 - Video Shooting", "Video Shooting.2"},
		{"Implementation", "Implementation"},
	}
	if diff := cmp.Diff(want, DiscoverTaskColumns(cols)); diff != "" {
		t.Fatalf("task columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverTaskColumns_UnevenBuckets(t *testing.T) {
	cols := []string{"Content", "Content.1", "Scripts", "Scripts.1", "Video Shooting"}
	want := TaskColumnSpec{
		{"Stage 1 - Content", "Content"},
		{"Stage 1 - Scripts", "Scripts"},
		{"Stage 1 - Video Shooting", "Video Shooting"},
		{"Stage 2 - Content", "Content.1"},
		{"Stage 2 - Scripts", "Scripts.1"},
		{"Stage 2 - Video Shooting", ""},
		{"Implementation", ""},
	}
	if diff := cmp.Diff(want, DiscoverTaskColumns(cols)); diff != "" {
		t.Fatalf("task columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverTaskColumns_CapsAtThreeStages(t *testing.T) {
	cols := []string{"Content", "Content.1", "Content.2", "Content.3", "Content.4"}
	spec := DiscoverTaskColumns(cols)
	// 3 stages x 3 tasks + Implementation
	if len(spec) != 10 {
		t.Fatalf("expected 10 tasks, got %d: %v", len(spec), spec)
	}
	for _, tc := range spec {
		if tc.Column == "Content.3" || tc.Column == "Content.4" {
			t.Fatalf("columns beyond the third stage must be ignored: %v", spec)
		}
	}
}

func TestDiscoverTaskColumns_CaseInsensitiveAndOrder(t *testing.T) {
	cols := []string{"IMPLEMENTATION", "video shooting", "detailed outline", "CONTENT", "scripts", "course structure"}
	want := TaskColumnSpec{
		{"Course Structure", "course structure"},
		{"Detailed Outline", "detailed outline"},
		{"Stage 1 - Content", "CONTENT"},
		{"Stage 1 - Scripts", "scripts"},
		{"Stage 1 - Video Shooting", "video shooting"},
		{"Implementation", "IMPLEMENTATION"},
	}
	if diff := cmp.Diff(want, DiscoverTaskColumns(cols)); diff != "" {
		t.Fatalf("task columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverTaskColumns_NoImplementationStillEmitted(t *testing.T) {
	spec := DiscoverTaskColumns([]string{"School", "Content", "Scripts", "Video Shooting"})
	last := spec[len(spec)-1]
	if last.Label != "Implementation" || last.Bound() {
		t.Fatalf("expected trailing unbound Implementation, got %+v", last)
	}
	rec := NewDataset("t", []string{"School", "Content"}, [][]string{{"SCI", "yes"}, {"SET", "no"}})
	for _, r := range rec.Records {
		tasks := BuildTaskTable(r, spec)
		if tasks[len(tasks)-1].Done {
			t.Fatalf("unbound Implementation must be false")
		}
	}
}

func TestDiscoverTaskColumns_Idempotent(t *testing.T) {
	cols := []string{"Course Structure", "Content", "Scripts.1", "Video Shooting", "Content.1", "Implementation"}
	a := DiscoverTaskColumns(cols)
	b := DiscoverTaskColumns(cols)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("not idempotent:\n%s", diff)
	}
}

func TestDiscoverTaskColumns_LegacyModules(t *testing.T) {
	cols := []string{"Course Structure", "Detailed Outline", "M1", "M2", "M3", "M4", "M1.1", "M2.1", "M3.1", "Implementation"}
	want := TaskColumnSpec{
		{"Course Structure", "Course Structure"},
		{"Detailed Outline", "Detailed Outline"},
		{"Detailed Content - M1", "M1"},
		{"Detailed Content - M2", "M2"},
		{"Detailed Content - M3", "M3"},
		{"Detailed Content - M4", "M4"},
		{"Media Production - M1", "M1.1"},
		{"Media Production - M2", "M2.1"},
		{"Media Production - M3", "M3.1"},
		{"Media Production - M4", ""},
		{"Implementation", "Implementation"},
	}
	if diff := cmp.Diff(want, DiscoverTaskColumns(cols)); diff != "" {
		t.Fatalf("task columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverTaskColumns_Empty(t *testing.T) {
	want := TaskColumnSpec{{"Implementation", ""}}
	if diff := cmp.Diff(want, DiscoverTaskColumns(nil)); diff != "" {
		t.Fatalf("task columns mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTaskTable(t *testing.T) {
	cols := []string{"School", "Course Structure", "Content", "Scripts", "Video Shooting", "Content.1", "Implementation"}
	d := NewDataset("fall", cols, [][]string{
		{"SCI", "TRUE", "✅", "no", "", "done"},
	})
	want := []Task{
		{"Course Structure", true},
		{"Stage 1 - Content", true},
		{"Stage 1 - Scripts", false},
		{"Stage 1 - Video Shooting", false},
		{"Stage 2 - Content", true},
		{"Stage 2 - Scripts", false},
		{"Stage 2 - Video Shooting", false},
		{"Implementation", false},
	}
	if diff := cmp.Diff(want, d.TaskTable(d.Records[0])); diff != "" {
		t.Fatalf("task table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTaskTable_BoundColumnMissingFromRecord(t *testing.T) {
	spec := TaskColumnSpec{{"Implementation", "Implementation"}}
	got := BuildTaskTable(Record{}, spec)
	if len(got) != 1 || got[0].Done {
		t.Fatalf("missing cell must read as not done: %v", got)
	}
}
