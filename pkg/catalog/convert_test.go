package catalog

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/Komeii/courseweb/pkg/timecode"
)

func TestSessions_PairsVenues(t *testing.T) {
	rows := []CourseRow{
		{RawID: "A", Times: []string{"M3M4", "R5"}, Venues: []string{"DELTA103", "GEN1"}},
		{RawID: "B", Times: []string{"F1"}},
		{RawID: "C"},
	}

	sessions := Sessions(rows, nil)
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}

	want := []timecode.Interval{
		{Day: timecode.Monday, StartSlot: 3, EndSlot: 3, Venue: "DELTA103"},
		{Day: timecode.Monday, StartSlot: 4, EndSlot: 4, Venue: "DELTA103"},
		{Day: timecode.Thursday, StartSlot: 5, EndSlot: 5, Venue: "GEN1"},
	}
	if !reflect.DeepEqual(sessions[0].Intervals, want) {
		t.Errorf("unexpected intervals for A:\n got %+v\nwant %+v", sessions[0].Intervals, want)
	}
	if len(sessions[1].Intervals) != 1 || sessions[1].Intervals[0].Venue != "" {
		t.Errorf("expected one interval without venue for B, got %+v", sessions[1].Intervals)
	}
	if len(sessions[2].Intervals) != 0 {
		t.Errorf("expected no intervals for C, got %+v", sessions[2].Intervals)
	}
}

func TestSessions_MalformedDegrades(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rows := []CourseRow{
		{RawID: "BAD", Times: []string{"M3", "X9"}},
		{RawID: "GOOD", Times: []string{"W2"}},
	}

	sessions := Sessions(rows, logger)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if len(sessions[0].Intervals) != 0 {
		t.Errorf("expected malformed course to have no intervals, got %+v", sessions[0].Intervals)
	}
	if len(sessions[1].Intervals) != 1 {
		t.Errorf("expected 1 interval for GOOD, got %+v", sessions[1].Intervals)
	}

	logged := buf.String()
	if !strings.Contains(logged, "malformed time code") || !strings.Contains(logged, "course=BAD") {
		t.Errorf("expected a warning naming the course, got %q", logged)
	}
}

func TestValidateCourses(t *testing.T) {
	rows, err := ValidateCourses([]CourseRow{
		{RawID: "A", Credits: 2},
		{RawID: ""},
		{RawID: "B", Credits: -1},
	})
	if err == nil {
		t.Error("expected an error for the invalid rows")
	}
	if len(rows) != 1 || rows[0].RawID != "A" {
		t.Fatalf("expected only row A to survive, got %+v", rows)
	}

	rows, err = ValidateCourses([]CourseRow{{RawID: "A"}})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
}

func TestCourseRow_Display(t *testing.T) {
	c := CourseRow{NameZH: "微積分", NameEN: "Calculus", TeacherZH: []string{"王", "李"}}
	if got := c.DisplayName(true); got != "微積分" {
		t.Errorf("expected Chinese name, got %q", got)
	}
	if got := c.DisplayName(false); got != "Calculus" {
		t.Errorf("expected English name, got %q", got)
	}
	if got := c.Teachers(false); got != "王, 李" {
		t.Errorf("expected Chinese teachers as fallback, got %q", got)
	}

	c.NameEN = ""
	if got := c.DisplayName(false); got != "微積分" {
		t.Errorf("expected fallback to Chinese name, got %q", got)
	}
}
