package scraper

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Komeii/courseweb/pkg/catalog"
)

// ErrNoListing means the page has no table with a course number column.
var ErrNoListing = errors.New("no course listing table found")

type column int

const (
	colID column = iota
	colTitle
	colCredits
	colTime
	colVenue
	colTeacher
)

// headerAliases maps a column to the header texts registrars use for it.
var headerAliases = map[column][]string{
	colID:      {"科號", "course no", "course number"},
	colTitle:   {"科目名稱", "課程名稱", "course title", "title"},
	colCredits: {"學分", "credit"},
	colTime:    {"上課時間", "時間", "time"},
	colVenue:   {"教室", "地點", "room", "venue", "classroom"},
	colTeacher: {"授課教師", "教師", "instructor", "teacher"},
}

// ParseListing extracts course rows from a registrar listing page. Columns
// are located by their header text, so column order does not matter. A cell
// holding several meetings separates them with <br>; the n-th time pairs
// with the n-th venue.
func ParseListing(r io.Reader) ([]catalog.CourseRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []catalog.CourseRow
	found := false

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		cols := headerColumns(table)
		if _, ok := cols[colID]; !ok {
			return
		}
		found = true

		width := 0
		for _, idx := range cols {
			width = max(width, idx+1)
		}

		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			// Spanning note rows are narrower than the header.
			cells := tr.Children().Filter("td")
			if cells.Length() < width {
				return
			}

			cell := func(c column) *goquery.Selection {
				idx, ok := cols[c]
				if !ok {
					return nil
				}
				return cells.Eq(idx)
			}

			id := strings.Join(strings.Fields(cellText(cell(colID))), " ")
			if id == "" {
				return
			}

			title := cellLines(cell(colTitle))
			row := catalog.CourseRow{
				RawID:   id,
				Credits: parseCredits(cellText(cell(colCredits))),
			}
			row.Times, row.Venues = pairMeetings(cellSlots(cell(colTime)), cellSlots(cell(colVenue)))
			// Bilingual listings print the Chinese title above the English one.
			if len(title) > 0 {
				row.NameZH = title[0]
			}
			if len(title) > 1 {
				row.NameEN = title[1]
			}
			for _, t := range cellLines(cell(colTeacher)) {
				row.TeacherZH = append(row.TeacherZH, splitTeachers(t)...)
			}

			rows = append(rows, row)
		})
	})

	if !found {
		return nil, ErrNoListing
	}
	return deduplicateRows(rows), nil
}

// FetchListing downloads or opens a listing and parses it.
func (c *Client) FetchListing(ctx context.Context, location string) ([]catalog.CourseRow, error) {
	body, err := c.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ParseListing(body)
}

// headerColumns indexes the first header row of a table.
func headerColumns(table *goquery.Selection) map[column]int {
	cols := make(map[column]int)

	header := table.Find("tr").FilterFunction(func(i int, tr *goquery.Selection) bool {
		return tr.Children().Filter("th").Length() > 0
	}).First()

	header.Children().Each(func(i int, th *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(th.Text()))
		for c := colID; c <= colTeacher; c++ {
			if _, taken := cols[c]; taken {
				continue
			}
			for _, a := range headerAliases[c] {
				if strings.Contains(text, a) {
					cols[c] = i
					return
				}
			}
		}
	})
	return cols
}

func cellText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// cellLines splits a cell on <br> and drops empty lines.
func cellLines(sel *goquery.Selection) []string {
	var lines []string
	for _, l := range cellSlots(sel) {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// cellSlots splits a cell on <br> keeping blank lines in place, so the n-th
// entry is still the n-th line. Trailing blanks are dropped.
func cellSlots(sel *goquery.Selection) []string {
	if sel == nil {
		return nil
	}

	var lines []string
	var cur strings.Builder
	flush := func() {
		lines = append(lines, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	sel.Contents().Each(func(i int, n *goquery.Selection) {
		if goquery.NodeName(n) == "br" {
			flush()
			return
		}
		cur.WriteString(n.Text())
	})
	flush()

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// pairMeetings lines venues up with times by position and drops blank time
// lines. The result always has one venue per time, blank when the room is
// not listed.
func pairMeetings(timeLines, venueLines []string) (times, venues []string) {
	for i, t := range timeLines {
		if t == "" {
			continue
		}
		venue := ""
		if i < len(venueLines) {
			venue = venueLines[i]
		}
		times = append(times, t)
		venues = append(venues, venue)
	}
	return times, venues
}

func splitTeachers(s string) []string {
	var out []string
	for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '、' || r == '/' }) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseCredits(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// deduplicateRows keeps the first row of each course id, since listings
// repeat a course under every department that offers it.
func deduplicateRows(rows []catalog.CourseRow) []catalog.CourseRow {
	seen := make(map[string]bool)
	var unique []catalog.CourseRow

	for _, r := range rows {
		if !seen[r.RawID] {
			seen[r.RawID] = true
			unique = append(unique, r)
		}
	}

	return unique
}
