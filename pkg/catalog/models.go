package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CourseRow is one record of the courses table as served by the backend.
type CourseRow struct {
	RawID      string   `json:"raw_id" validate:"required"`
	NameZH     string   `json:"name_zh"`
	NameEN     string   `json:"name_en"`
	Semester   string   `json:"semester"`
	Department string   `json:"department"`
	Course     string   `json:"course"`
	Class      string   `json:"class"`
	Credits    int      `json:"credits" validate:"gte=0"`
	TeacherZH  []string `json:"teacher_zh"`
	TeacherEN  []string `json:"teacher_en"`
	Language   string   `json:"language"`
	Times      []string `json:"times"`
	Venues     []string `json:"venues"`
}

// DisplayName picks the course name for the language, falling back to the
// other name when one is missing.
func (c CourseRow) DisplayName(zh bool) string {
	if zh && c.NameZH != "" || c.NameEN == "" {
		return c.NameZH
	}
	return c.NameEN
}

// Teachers joins the teacher list for the language.
func (c CourseRow) Teachers(zh bool) string {
	if zh || len(c.TeacherEN) == 0 {
		return strings.Join(c.TeacherZH, ", ")
	}
	return strings.Join(c.TeacherEN, ", ")
}

// BusRow is one record of the bus_schedule table.
type BusRow struct {
	ID        int      `json:"id" validate:"gt=0"`
	RouteName string   `json:"route_name" validate:"required"`
	Schedule  []string `json:"schedule"`
	Vehicle   string   `json:"vehicle"`
	Days      string   `json:"days" validate:"omitempty,oneof=weekday weekend all"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCourses drops rows that fail validation and reports them as one error.
// The valid rows are always returned.
func ValidateCourses(rows []CourseRow) ([]CourseRow, error) {
	var ok []CourseRow
	var bad []string
	for _, r := range rows {
		if err := validate.Struct(r); err != nil {
			bad = append(bad, fmt.Sprintf("%q: %v", r.RawID, err))
			continue
		}
		ok = append(ok, r)
	}
	if len(bad) > 0 {
		return ok, fmt.Errorf("dropped %d invalid course rows: %s", len(bad), strings.Join(bad, "; "))
	}
	return ok, nil
}

// ValidateBusRows drops rows that fail validation and reports them as one error.
func ValidateBusRows(rows []BusRow) ([]BusRow, error) {
	var ok []BusRow
	var bad []string
	for _, r := range rows {
		r.Days = strings.ToLower(strings.TrimSpace(r.Days))
		if err := validate.Struct(r); err != nil {
			bad = append(bad, fmt.Sprintf("id %d: %v", r.ID, err))
			continue
		}
		ok = append(ok, r)
	}
	if len(bad) > 0 {
		return ok, fmt.Errorf("dropped %d invalid bus rows: %s", len(bad), strings.Join(bad, "; "))
	}
	return ok, nil
}
