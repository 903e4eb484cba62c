package archive

// Package archive models the subset of the PRIDE Archive web-service data
// model this client consumes. Records are populated from JSON responses and
// never mutated afterwards; fields the service returns but we do not declare
// are dropped on decode, fields the service omits stay at their zero value.

// ProjectSummary is one row of a project search result page.
type ProjectSummary struct {
	Accession       string   `json:"accession"`
	Title           string   `json:"title"`
	NumAssays       int      `json:"numAssays"`
	PublicationDate string   `json:"publicationDate"`
	ProjectTags     []string `json:"projectTags"`
}

// ProjectDetail is the full record for a single project.
type ProjectDetail struct {
	Accession          string   `json:"accession"`
	Title              string   `json:"title"`
	ProjectDescription string   `json:"projectDescription"`
	NumAssays          int      `json:"numAssays"`
	DOI                string   `json:"doi"`
	ProjectTags        []string `json:"projectTags"`
}

// AssayDetail describes a single assay. The owning project is implicit in
// the query path, it is not embedded in the record.
type AssayDetail struct {
	AssayAccession string `json:"assayAccession"`
	Title          string `json:"title"`
	ShortLabel     string `json:"shortLabel"`
}

// FileDetail describes one data file attached to a project or assay.
type FileDetail struct {
	FileName string `json:"fileName"`
}

// The service wraps every array response in a {"list": [...]} envelope.

// ProjectSummaryList is one page of project search results.
type ProjectSummaryList struct {
	List []ProjectSummary `json:"list"`
}

// AssayDetailList holds the assays of one project.
type AssayDetailList struct {
	List []AssayDetail `json:"list"`
}

// FileDetailList holds the files of one project or assay.
type FileDetailList struct {
	List []FileDetail `json:"list"`
}
