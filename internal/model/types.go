package model

import (
	"fmt"
	"strings"
)

// Category classifies a diagnostic message by its numeric code.
// The category is a pure function of the code (see CategoryOf).
type Category string

const (
	// CategoryNone is used for messages without a code, or with a code
	// outside every known band.
	CategoryNone Category = ""

	// CategoryBadData covers codes in [3000, 4000).
	CategoryBadData Category = "bad-data"

	// CategoryInvalidData covers codes in [4000, 5000).
	CategoryInvalidData Category = "invalid-data"

	// CategoryMissingData covers codes in [5000, 6000).
	CategoryMissingData Category = "missing-data"

	// CategoryUnsupportedFeature covers codes in [6000, 7000).
	CategoryUnsupportedFeature Category = "unsupported-feature"

	// CategorySchemaError covers codes in [8000, 9000).
	CategorySchemaError Category = "schema-error"

	// CategoryAssetError covers codes in [9000, 10000).
	CategoryAssetError Category = "asset-error"
)

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// codeBand is a half-open [low, high) range of message codes.
type codeBand struct {
	low, high int
	category  Category
}

// codeBands lists every known category band. The bands never overlap.
var codeBands = []codeBand{
	{3000, 4000, CategoryBadData},
	{4000, 5000, CategoryInvalidData},
	{5000, 6000, CategoryMissingData},
	{6000, 7000, CategoryUnsupportedFeature},
	{8000, 9000, CategorySchemaError},
	{9000, 10000, CategoryAssetError},
}

// CategoryOf returns the category for a message code.
func CategoryOf(code int) Category {
	for _, b := range codeBands {
		if code >= b.low && code < b.high {
			return b.category
		}
	}
	return CategoryNone
}

// Message is a single diagnostic message emitted by iTMSTransporter,
// either an error or a warning.
//
// Code is nil when the tool did not attach a numeric code to the message.
type Message struct {
	// Text is the human-readable message with quoting and code suffixes removed.
	Text string `json:"message" yaml:"message"`

	// Code is the vendor error code (e.g., 9000 for "ITMS-9000"), if any.
	Code *int `json:"code,omitempty" yaml:"code,omitempty"`
}

// NewMessage creates a Message without a code.
func NewMessage(text string) Message {
	return Message{Text: text}
}

// NewCodedMessage creates a Message carrying a numeric code.
func NewCodedMessage(text string, code int) Message {
	return Message{Text: text, Code: &code}
}

// HasCode reports whether the message carries a numeric code.
func (m Message) HasCode() bool {
	return m.Code != nil
}

// Category returns the message category derived from its code.
func (m Message) Category() Category {
	if m.Code == nil {
		return CategoryNone
	}
	return CategoryOf(*m.Code)
}

// IsBadData reports whether the code is in [3000, 4000).
func (m Message) IsBadData() bool { return m.Category() == CategoryBadData }

// IsInvalidData reports whether the code is in [4000, 5000).
func (m Message) IsInvalidData() bool { return m.Category() == CategoryInvalidData }

// IsMissingData reports whether the code is in [5000, 6000).
func (m Message) IsMissingData() bool { return m.Category() == CategoryMissingData }

// IsUnsupportedFeature reports whether the code is in [6000, 7000).
func (m Message) IsUnsupportedFeature() bool { return m.Category() == CategoryUnsupportedFeature }

// IsSchemaError reports whether the code is in [8000, 9000).
func (m Message) IsSchemaError() bool { return m.Category() == CategorySchemaError }

// IsAssetError reports whether the code is in [9000, 10000).
func (m Message) IsAssetError() bool { return m.Category() == CategoryAssetError }

// IsValidationError reports whether the code is in [3000, 10000), i.e. any
// of the data, schema or asset bands.
func (m Message) IsValidationError() bool {
	return m.Code != nil && *m.Code >= 3000 && *m.Code < 10000
}

// String returns the message text followed by its code in parentheses,
// e.g. "Audio is broken (9000)".
func (m Message) String() string {
	if m.Code == nil {
		return m.Text
	}
	return fmt.Sprintf("%s (%d)", m.Text, *m.Code)
}

// Outcome holds the raw result of one iTMSTransporter process: its exit
// code and every line it wrote, split by stream and kept in write order.
type Outcome struct {
	// ExitCode is the process exit status.
	ExitCode int

	// Stdout holds standard output lines without trailing newlines.
	Stdout []string

	// Stderr holds standard error lines without trailing newlines.
	Stderr []string
}

// StdoutText joins the captured stdout lines with newlines.
func (o *Outcome) StdoutText() string {
	return strings.Join(o.Stdout, "\n")
}

// StderrText joins the captured stderr lines with newlines.
func (o *Outcome) StderrText() string {
	return strings.Join(o.Stderr, "\n")
}

// Provider is one entry of the provider listing: an account the
// credentials are authorized to deliver content for.
type Provider struct {
	// ShortName is the provider short name passed to -s.
	ShortName string `json:"shortName" yaml:"shortName"`

	// LongName is the provider display name.
	LongName string `json:"longName" yaml:"longName"`
}

// StatusRecord is the status of one previously delivered package, as
// reported by the status and statusAll modes.
type StatusRecord struct {
	// AppleID is the Apple-assigned identifier, from apple_identifier.
	AppleID string `json:"appleId,omitempty" yaml:"appleId,omitempty"`

	// VendorID is the provider-assigned identifier, from vendor_identifier.
	VendorID string `json:"vendorId,omitempty" yaml:"vendorId,omitempty"`

	// ContentStatus is nil when the record has no content_status_info block.
	ContentStatus *ContentStatus `json:"contentStatus,omitempty" yaml:"contentStatus,omitempty"`

	// Info holds one entry per upload_status_info element, in document order.
	Info []UploadInfo `json:"info" yaml:"info"`
}

// ContentStatus describes the review and store state of a package.
type ContentStatus struct {
	Status              string `json:"status,omitempty" yaml:"status,omitempty"`
	ReviewStatus        string `json:"reviewStatus,omitempty" yaml:"reviewStatus,omitempty"`
	ITunesConnectStatus string `json:"itunesConnectStatus,omitempty" yaml:"itunesConnectStatus,omitempty"`

	// StoreStatus maps a store status name (e.g., "ready_for_store") to the
	// territory codes reported for it. Nil when store_status is absent.
	StoreStatus map[string][]string `json:"storeStatus,omitempty" yaml:"storeStatus,omitempty"`

	// VideoComponents lists component statuses in document order.
	VideoComponents []VideoComponent `json:"videoComponents" yaml:"videoComponents"`
}

// VideoComponent is the status of one video or audio asset of a package.
// Locale, Status and Delivered are empty when the tool reported "N/A".
type VideoComponent struct {
	Name      string `json:"name" yaml:"name"`
	Locale    string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	Delivered string `json:"delivered,omitempty" yaml:"delivered,omitempty"`
}

// UploadInfo holds the attributes of one upload_status_info element,
// keyed by attribute name (e.g., "created", "status").
type UploadInfo map[string]string
