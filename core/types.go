// Package core defines the shared report types, error taxonomy, format
// detection and output rendering for the image metadata extractor.
package core

// Sentinel values substituted when a field cannot be determined.
const (
	NotApplicable = "N/A"
	Unknown       = "Unknown"
)

// Section names, in report order.
const (
	SectionImage    = "Image Properties"
	SectionCamera   = "Camera Information"
	SectionDateTime = "Date and Time"
	SectionSettings = "Camera Settings"
	SectionGPS      = "GPS Information"
	SectionOther    = "Other Details"
)

// Field is a single labelled value inside a report section.
type Field struct {
	Label string `json:"label"` // Display label (e.g. "Make", "F-Number")
	Value string `json:"value"` // Human-readable value, or a sentinel
}

// Section is a named, ordered group of fields.
//
// A section whose content could not be determined at all has no fields and
// carries Placeholder instead.
type Section struct {
	Name        string  `json:"name"`
	Fields      []Field `json:"fields,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
}

// Value returns the value stored under label.
func (s *Section) Value(label string) (string, bool) {
	for _, f := range s.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Add appends a field, keeping insertion order.
func (s *Section) Add(label, value string) {
	s.Fields = append(s.Fields, Field{Label: label, Value: value})
}

// Report holds everything extracted from a single file. Section order and
// field order are the presentation order.
type Report struct {
	FilePath string    `json:"file"`
	Sections []Section `json:"sections"`
	// Warnings lists non-fatal problems met while building the report,
	// such as a malformed metadata segment that was skipped.
	Warnings []string  `json:"warnings,omitempty"`
}

// Section returns the section called name, or nil.
func (r *Report) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// Value looks up a field by section and label.
func (r *Report) Value(section, label string) (string, bool) {
	s := r.Section(section)
	if s == nil {
		return "", false
	}
	return s.Value(label)
}

// Summary returns a short string of key fields for quick display.
func (r *Report) Summary() string {
	for _, key := range []string{"Make", "Model"} {
		if v, ok := r.Value(SectionCamera, key); ok && v != NotApplicable {
			return key + ": " + v
		}
	}
	if v, ok := r.Value(SectionImage, "Format"); ok {
		return v
	}
	return r.FilePath
}
