package crossref

import "time"

// Envelope is the wrapper the Crossref API puts around every JSON response.
type Envelope[T any] struct {
	Status         string `json:"status"          yaml:"status"`
	MessageType    string `json:"message-type"    yaml:"message-type"`
	MessageVersion string `json:"message-version" yaml:"message-version"`
	Message        T      `json:"message"         yaml:"message"`
}

// ListMessage is the message payload of a list endpoint.
type ListMessage[T any] struct {
	Facets       map[string]Facet `json:"facets,omitempty"      yaml:"facets,omitempty"`
	TotalResults int              `json:"total-results"         yaml:"total-results"`
	Items        []T              `json:"items"                 yaml:"items"`
	ItemsPerPage int              `json:"items-per-page"        yaml:"items-per-page"`
	Query        *ListQuery       `json:"query,omitempty"       yaml:"query,omitempty"`
	NextCursor   string           `json:"next-cursor,omitempty" yaml:"next-cursor,omitempty"`
}

// ListQuery echoes the search terms and start index of a list request.
type ListQuery struct {
	StartIndex  int    `json:"start-index"  yaml:"start-index"`
	SearchTerms string `json:"search-terms" yaml:"search-terms"`
}

// Facet is a single facet aggregation in a list response.
type Facet struct {
	ValueCount int            `json:"value-count" yaml:"value-count"`
	Values     map[string]int `json:"values"      yaml:"values"`
}

// PartialDate represents Crossref's date model, which may carry only a year,
// a year and month, or a full date.
type PartialDate struct {
	DateParts [][]int    `json:"date-parts"          yaml:"date-parts"`
	DateTime  *time.Time `json:"date-time,omitempty" yaml:"date-time,omitempty"`
	Timestamp int64      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Contributor is an author, editor, or other contributor on a work.
type Contributor struct {
	Given       string        `json:"given,omitempty"       yaml:"given,omitempty"`
	Family      string        `json:"family,omitempty"      yaml:"family,omitempty"`
	Name        string        `json:"name,omitempty"        yaml:"name,omitempty"`
	ORCID       string        `json:"ORCID,omitempty"       yaml:"orcid,omitempty"`
	Sequence    string        `json:"sequence,omitempty"    yaml:"sequence,omitempty"`
	Affiliation []Affiliation `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Affiliation is a contributor's institutional affiliation.
type Affiliation struct {
	Name string `json:"name" yaml:"name"`
}

// WorkLicense describes a license attached to a work.
type WorkLicense struct {
	URL            string       `json:"URL"                       yaml:"url"`
	Start          *PartialDate `json:"start,omitempty"           yaml:"start,omitempty"`
	DelayInDays    int          `json:"delay-in-days"             yaml:"delay-in-days"`
	ContentVersion string       `json:"content-version,omitempty" yaml:"content-version,omitempty"`
}

// WorkLink is a full-text link attached to a work.
type WorkLink struct {
	URL                 string `json:"URL"                            yaml:"url"`
	ContentType         string `json:"content-type,omitempty"         yaml:"content-type,omitempty"`
	ContentVersion      string `json:"content-version,omitempty"      yaml:"content-version,omitempty"`
	IntendedApplication string `json:"intended-application,omitempty" yaml:"intended-application,omitempty"`
}

// Work represents a registered content item (journal article, book chapter,
// dataset, and so on) keyed by DOI.
type Work struct {
	DOI                 string        `json:"DOI"                             yaml:"doi"`
	Type                string        `json:"type"                            yaml:"type"`
	Title               []string      `json:"title,omitempty"                 yaml:"title,omitempty"`
	Subtitle            []string      `json:"subtitle,omitempty"              yaml:"subtitle,omitempty"`
	ContainerTitle      []string      `json:"container-title,omitempty"       yaml:"container-title,omitempty"`
	ShortContainerTitle []string      `json:"short-container-title,omitempty" yaml:"short-container-title,omitempty"`
	Author              []Contributor `json:"author,omitempty"                yaml:"author,omitempty"`
	Editor              []Contributor `json:"editor,omitempty"                yaml:"editor,omitempty"`
	Publisher           string        `json:"publisher,omitempty"             yaml:"publisher,omitempty"`
	Member              string        `json:"member,omitempty"                yaml:"member,omitempty"`
	Prefix              string        `json:"prefix,omitempty"                yaml:"prefix,omitempty"`
	Volume              string        `json:"volume,omitempty"                yaml:"volume,omitempty"`
	Issue               string        `json:"issue,omitempty"                 yaml:"issue,omitempty"`
	Page                string        `json:"page,omitempty"                  yaml:"page,omitempty"`
	ISSN                []string      `json:"ISSN,omitempty"                  yaml:"issn,omitempty"`
	ISBN                []string      `json:"ISBN,omitempty"                  yaml:"isbn,omitempty"`
	URL                 string        `json:"URL,omitempty"                   yaml:"url,omitempty"`
	Abstract            string        `json:"abstract,omitempty"              yaml:"abstract,omitempty"`
	Subject             []string      `json:"subject,omitempty"               yaml:"subject,omitempty"`
	Language            string        `json:"language,omitempty"              yaml:"language,omitempty"`
	License             []WorkLicense `json:"license,omitempty"               yaml:"license,omitempty"`
	Link                []WorkLink    `json:"link,omitempty"                  yaml:"link,omitempty"`
	Issued              *PartialDate  `json:"issued,omitempty"                yaml:"issued,omitempty"`
	Created             *PartialDate  `json:"created,omitempty"               yaml:"created,omitempty"`
	Deposited           *PartialDate  `json:"deposited,omitempty"             yaml:"deposited,omitempty"`
	Indexed             *PartialDate  `json:"indexed,omitempty"               yaml:"indexed,omitempty"`
	ReferenceCount      int           `json:"reference-count"                 yaml:"reference-count"`
	IsReferencedByCount int           `json:"is-referenced-by-count"          yaml:"is-referenced-by-count"`
	Score               float64       `json:"score,omitempty"                 yaml:"score,omitempty"`
}

// Agency identifies the registration agency responsible for a DOI.
type Agency struct {
	DOI    string     `json:"DOI"    yaml:"doi"`
	Agency AgencyInfo `json:"agency" yaml:"agency"`
}

// AgencyInfo is the id/label pair describing a registration agency.
type AgencyInfo struct {
	ID    string `json:"id"    yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Member represents a Crossref member organization.
type Member struct {
	ID          int            `json:"id"                    yaml:"id"`
	PrimaryName string         `json:"primary-name"          yaml:"primary-name"`
	Names       []string       `json:"names,omitempty"       yaml:"names,omitempty"`
	Location    string         `json:"location,omitempty"    yaml:"location,omitempty"`
	Prefixes    []string       `json:"prefixes,omitempty"    yaml:"prefixes,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"      yaml:"counts,omitempty"`
	Tokens      []string       `json:"tokens,omitempty"      yaml:"tokens,omitempty"`
	LastStatus  string         `json:"last-status-check-time,omitempty" yaml:"last-status-check-time,omitempty"`
}

// Funder represents a funding body in the Funder Registry.
type Funder struct {
	ID         string   `json:"id"                    yaml:"id"`
	Name       string   `json:"name"                  yaml:"name"`
	AltNames   []string `json:"alt-names,omitempty"   yaml:"alt-names,omitempty"`
	URI        string   `json:"uri,omitempty"         yaml:"uri,omitempty"`
	Location   string   `json:"location,omitempty"    yaml:"location,omitempty"`
	Replaces   []string `json:"replaces,omitempty"    yaml:"replaces,omitempty"`
	ReplacedBy []string `json:"replaced-by,omitempty" yaml:"replaced-by,omitempty"`
	Tokens     []string `json:"tokens,omitempty"      yaml:"tokens,omitempty"`
}

// Journal represents a journal known to Crossref.
type Journal struct {
	Title     string             `json:"title"                yaml:"title"`
	Publisher string             `json:"publisher,omitempty"  yaml:"publisher,omitempty"`
	ISSN      []string           `json:"ISSN,omitempty"       yaml:"issn,omitempty"`
	ISSNType  []ISSNType         `json:"issn-type,omitempty"  yaml:"issn-type,omitempty"`
	Subjects  []string           `json:"subjects,omitempty"   yaml:"subjects,omitempty"`
	Flags     map[string]bool    `json:"flags,omitempty"      yaml:"flags,omitempty"`
	Coverage  map[string]float64 `json:"coverage,omitempty"   yaml:"coverage,omitempty"`
	Counts    map[string]int     `json:"counts,omitempty"     yaml:"counts,omitempty"`
}

// ISSNType pairs an ISSN with its medium (print or electronic).
type ISSNType struct {
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type"  yaml:"type"`
}

// Prefix represents an owner prefix registered with Crossref.
type Prefix struct {
	Prefix string `json:"prefix"           yaml:"prefix"`
	Name   string `json:"name"             yaml:"name"`
	Member string `json:"member,omitempty" yaml:"member,omitempty"`
}

// WorkType is one of the content type identifiers the API recognizes.
type WorkType struct {
	ID    string `json:"id"    yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// License summarizes a license URL and the number of works using it.
type License struct {
	URL       string `json:"URL"        yaml:"url"`
	WorkCount int    `json:"work-count" yaml:"work-count"`
}

// List aliases for the common resource types.
type (
	// WorkList is a paginated list of works.
	WorkList = ListMessage[Work]

	// MemberList is a paginated list of members.
	MemberList = ListMessage[Member]

	// FunderList is a paginated list of funders.
	FunderList = ListMessage[Funder]

	// JournalList is a paginated list of journals.
	JournalList = ListMessage[Journal]

	// WorkTypeList is a paginated list of work types.
	WorkTypeList = ListMessage[WorkType]

	// LicenseList is a paginated list of licenses.
	LicenseList = ListMessage[License]
)
