package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		FilePath: "/tmp/a.jpg",
		Sections: []Section{
			{Name: SectionImage, Fields: []Field{{"Format", "JPEG"}, {"Size", "4 x 4 pixels"}}},
			{Name: SectionGPS, Placeholder: NotApplicable},
		},
		Warnings: []string{"metadata skipped"},
	}
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Writer: &buf}
	require.NoError(t, p.PrintReport(sampleReport()))

	want := "\nImage Properties:\n  Format: JPEG\n  Size: 4 x 4 pixels\n" +
		"\nGPS Information:\n  N/A\n" +
		"\nwarning: metadata skipped\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_TextMany(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Writer: &buf}
	require.NoError(t, p.PrintReports([]*Report{sampleReport(), sampleReport()}))
	assert.Equal(t, 2, strings.Count(buf.String(), "File  : /tmp/a.jpg (JPEG)\n"))
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{JSON: true, Writer: &buf}
	require.NoError(t, p.PrintReport(sampleReport()))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleReport(), got)

	out := buf.String()
	assert.Less(t, strings.Index(out, `"Format"`), strings.Index(out, `"Size"`))
	assert.Contains(t, out, `"placeholder": "N/A"`)
}

func TestPrinter_JSONMany(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{JSON: true, Writer: &buf}
	require.NoError(t, p.PrintReports([]*Report{sampleReport(), sampleReport()}))

	var got []Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestReport_Lookup(t *testing.T) {
	r := sampleReport()
	v, ok := r.Value(SectionImage, "Format")
	assert.True(t, ok)
	assert.Equal(t, "JPEG", v)

	_, ok = r.Value(SectionCamera, "Make")
	assert.False(t, ok)
	assert.Nil(t, r.Section("nope"))
	assert.Equal(t, "JPEG", r.Summary())
}
