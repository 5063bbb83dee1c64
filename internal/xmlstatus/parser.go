package xmlstatus

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// notApplicable is the placeholder the tool prints for absent values.
const notApplicable = "N/A"

// contextLen is how much of the offending input is quoted in parse errors.
const contextLen = 32

var (
	territorySep   = regexp.MustCompile(`\s*,\s*`)
	summaryHeading = regexp.MustCompile(`^\s*Error Summary\s*`)
)

// node is a generic XML element: its attributes in document order, its
// child elements and its character data.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// attr returns the value of the named attribute, or "" when absent.
func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// first returns the first child element with the given name, or nil.
func (n *node) first(name string) *node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// all returns every child element with the given name, in document order.
func (n *node) all(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// ParseReader reads the whole payload from r and parses it with Parse.
func ParseReader(r io.Reader) ([]model.StatusRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.WrapTransporterError("failed to read status XML", err)
	}
	return Parse(string(data))
}

// Parse converts a status XML payload into records, one per child element
// of the document root, in document order.
//
// Errors are returned as *model.ParseError when:
//   - the payload holds no root element ("invalid XML document")
//   - the document is not well-formed (the offending line is reported)
//   - the root has no child elements (the payload is an error text)
//   - a record has neither an Apple ID nor a vendor ID
func Parse(payload string) ([]model.StatusRecord, error) {
	root, err := decode(payload)
	if err != nil {
		return nil, err
	}

	// A childless root carries the tool's plain-text error summary.
	if len(root.Children) == 0 {
		text := summaryHeading.ReplaceAllString(root.Text, "")
		text = strings.TrimSpace(text)
		if text == "" {
			text = "status document <" + root.XMLName.Local + "> has no entries"
		}
		return nil, model.NewParseError("%s", text)
	}

	records := make([]model.StatusRecord, 0, len(root.Children))
	for i := range root.Children {
		rec, err := parseRecord(&root.Children[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decode locates the root element and decodes it into a node tree.
func decode(payload string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(payload))

	// Skip the prolog (declaration, comments, whitespace) up to the root.
	var start xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, model.NewParseError("invalid XML document: '%s'", truncate(payload))
		}
		if se, ok := tok.(xml.StartElement); ok {
			start = se
			break
		}
	}

	var root node
	if err := dec.DecodeElement(&root, &start); err != nil {
		return nil, malformed(payload, err)
	}

	// Only comments, processing instructions and whitespace may follow the root.
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return &root, nil
		}
		if err != nil {
			return nil, malformed(payload, err)
		}

		line, _ := dec.InputPos()
		switch t := tok.(type) {
		case xml.StartElement:
			return nil, model.NewParseError("XML is not well-formed, caused by line %d: content after root element <%s>: %s",
				line, start.Name.Local, truncate(lineAt(payload, line)))
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return nil, model.NewParseError("XML is not well-formed, caused by line %d: content after root element <%s>: %s",
					line, start.Name.Local, truncate(lineAt(payload, line)))
			}
		}
	}
}

// malformed converts a decoder error into a ParseError with line context.
func malformed(payload string, err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return model.NewParseError("XML is not well-formed, caused by line %d: %s",
			syntaxErr.Line, truncate(lineAt(payload, syntaxErr.Line)))
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return model.NewParseError("XML is not well-formed, caused by line %d: unexpected end of document",
			strings.Count(payload, "\n")+1)
	}
	return model.NewParseError("XML parsing failed: %v", err)
}

// parseRecord converts one per-package element.
func parseRecord(e *node) (model.StatusRecord, error) {
	rec := model.StatusRecord{
		AppleID:  e.attr("apple_identifier"),
		VendorID: e.attr("vendor_identifier"),
		Info:     []model.UploadInfo{},
	}
	if rec.AppleID == "" && rec.VendorID == "" {
		return rec, model.NewParseError("status entry <%s> has no apple_identifier or vendor_identifier", e.XMLName.Local)
	}

	if info := e.first("content_status_info"); info != nil {
		rec.ContentStatus = parseContentStatus(info)
	}

	for _, u := range e.all("upload_status_info") {
		entry := make(model.UploadInfo, len(u.Attrs))
		for _, a := range u.Attrs {
			entry[a.Name.Local] = a.Value
		}
		rec.Info = append(rec.Info, entry)
	}

	return rec, nil
}

// parseContentStatus converts a content_status_info element.
func parseContentStatus(e *node) *model.ContentStatus {
	cs := &model.ContentStatus{
		Status:              e.attr("content_status"),
		ReviewStatus:        e.attr("content_review_status"),
		ITunesConnectStatus: e.attr("itunes_connect_status"),
		VideoComponents:     []model.VideoComponent{},
	}

	if store := e.first("store_status"); store != nil {
		cs.StoreStatus = make(map[string][]string, len(store.Attrs))
		for _, a := range store.Attrs {
			cs.StoreStatus[a.Name.Local] = territories(a.Value)
		}
	}

	for _, group := range e.all("video_components") {
		for _, c := range group.all("video_component") {
			cs.VideoComponents = append(cs.VideoComponents, model.VideoComponent{
				Name:      c.attr("component_name"),
				Locale:    orEmpty(c.attr("component_locale")),
				Status:    orEmpty(c.attr("component_status")),
				Delivered: orEmpty(c.attr("component_delivered")),
			})
		}
	}

	return cs
}

// territories splits a comma-separated territory list. "N/A" and "" yield
// an empty, non-nil list.
func territories(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == notApplicable {
		return []string{}
	}
	return territorySep.Split(value, -1)
}

// orEmpty maps the "N/A" placeholder to "".
func orEmpty(value string) string {
	if value == notApplicable {
		return ""
	}
	return value
}

// lineAt returns the 1-based line n of s, or "" when out of range.
func lineAt(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[n-1])
}

// truncate shortens s to at most contextLen bytes for error messages,
// cutting on a rune boundary.
func truncate(s string) string {
	if len(s) <= contextLen {
		return s
	}
	n := contextLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
