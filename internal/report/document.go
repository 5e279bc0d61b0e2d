package report

import "time"

// Section is one titled block of narrative text.
type Section struct {
	Heading string
	Body    string
}

// Table is a titled grid rendered into the report.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Document is the renderer-independent report payload.
type Document struct {
	Title       string
	Owner       string
	GeneratedAt time.Time
	Sections    []Section
	Tables      []Table
	Disclaimer  string
}
