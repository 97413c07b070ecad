package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Querier is the subset of *sql.DB the SQL source needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLSource reads the portal tables straight from Postgres.
type SQLSource struct {
	db     Querier
	logger *slog.Logger
}

// OpenSQL connects to Postgres through the pgx driver.
func OpenSQL(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func NewSQLSource(db Querier, logger *slog.Logger) *SQLSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSource{db: db, logger: logger}
}

// Text arrays are selected as JSON so they scan into plain strings.
const courseColumns = `
raw_id,
coalesce(name_zh, ''),
coalesce(name_en, ''),
coalesce(semester, ''),
coalesce(department, ''),
coalesce(course, ''),
coalesce(class, ''),
coalesce(credits, 0),
coalesce(array_to_json(teacher_zh), '[]')::text,
coalesce(array_to_json(teacher_en), '[]')::text,
coalesce(language, ''),
coalesce(array_to_json(times), '[]')::text,
coalesce(array_to_json(venues), '[]')::text
`

func (s *SQLSource) FetchCourses(ctx context.Context, ids []string) ([]CourseRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + courseColumns + `
FROM courses
WHERE raw_id = ANY($1)
`
	rows, err := s.queryCourses(ctx, query, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]CourseRow, len(rows))
	for _, r := range rows {
		found[r.RawID] = r
	}
	return orderByIDs(ids, found), nil
}

func (s *SQLSource) SearchCourses(ctx context.Context, query string) ([]CourseRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	stmt := `SELECT ` + courseColumns + `
FROM courses
WHERE raw_id ILIKE $1 OR name_zh ILIKE $1 OR name_en ILIKE $1
ORDER BY raw_id ASC
LIMIT $2
`
	return s.queryCourses(ctx, stmt, likePattern(query), searchLimit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern wraps query for a substring ILIKE match, escaping the
// characters LIKE treats as wildcards.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (s *SQLSource) queryCourses(ctx context.Context, query string, args ...any) ([]CourseRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []CourseRow
	for rows.Next() {
		var c CourseRow
		var teacherZH, teacherEN, times, venues string
		if err := rows.Scan(
			&c.RawID,
			&c.NameZH,
			&c.NameEN,
			&c.Semester,
			&c.Department,
			&c.Course,
			&c.Class,
			&c.Credits,
			&teacherZH,
			&teacherEN,
			&c.Language,
			&times,
			&venues,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		for _, a := range []struct {
			raw string
			dst *[]string
		}{
			{teacherZH, &c.TeacherZH},
			{teacherEN, &c.TeacherEN},
			{times, &c.Times},
			{venues, &c.Venues},
		} {
			if err := json.Unmarshal([]byte(a.raw), a.dst); err != nil {
				return nil, fmt.Errorf("course %q: failed to decode array column: %w", c.RawID, err)
			}
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	valid, err := ValidateCourses(courses)
	if err != nil {
		s.logger.Warn("course rows rejected", "err", err)
	}
	return valid, nil
}

func (s *SQLSource) FetchBusSchedules(ctx context.Context, routeCodes []string) ([]BusRow, error) {
	if len(routeCodes) == 0 {
		return nil, nil
	}

	const query = `
SELECT id, route_name, coalesce(array_to_json(schedule), '[]')::text, coalesce(vehicle, ''), coalesce(days, '')
FROM bus_schedule
WHERE route_name = ANY($1)
ORDER BY id ASC
`
	rows, err := s.db.QueryContext(ctx, query, routeCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to query bus schedule: %w", err)
	}
	defer rows.Close()

	var out []BusRow
	for rows.Next() {
		var r BusRow
		var schedule string
		if err := rows.Scan(&r.ID, &r.RouteName, &schedule, &r.Vehicle, &r.Days); err != nil {
			return nil, fmt.Errorf("failed to scan bus row: %w", err)
		}
		if err := json.Unmarshal([]byte(schedule), &r.Schedule); err != nil {
			return nil, fmt.Errorf("bus row %d: failed to decode schedule: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	valid, err := ValidateBusRows(out)
	if err != nil {
		s.logger.Warn("bus rows rejected", "err", err)
	}
	return valid, nil
}
