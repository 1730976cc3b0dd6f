package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte(`<?xml version="1.0"?><Types/>`))
	if body != "" {
		w, err = zw.Create(docxBody)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>TENANCY AGREEMENT</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Deposit: </w:t></w:r><w:r><w:t>£1,200</w:t></w:r><w:r><w:tab/><w:t>refundable</w:t></w:r></w:p>
    <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtract_DOCX(t *testing.T) {
	e := NewExtractor(nil)
	doc, err := e.Extract(buildDOCX(t, sampleBody), "lease.docx", MimeDOCX)
	require.NoError(t, err)
	assert.Equal(t, DOCX, doc.Kind)
	assert.Equal(t, "TENANCY AGREEMENT\nDeposit: £1,200\trefundable\nLine one\nLine two", doc.Text)
}

func TestExtract_DOCXWithoutBody(t *testing.T) {
	_, err := NewExtractor(nil).Extract(buildDOCX(t, ""), "x.docx", MimeDOCX)
	assert.ErrorIs(t, err, ErrDOCX)
}

func TestExtract_DOCXNotZip(t *testing.T) {
	_, err := NewExtractor(nil).Extract([]byte("plain text"), "x.docx", MimeDOCX)
	assert.ErrorIs(t, err, ErrDOCX)
}

func TestExtract_EmptyDOCX(t *testing.T) {
	body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`
	_, err := NewExtractor(nil).Extract(buildDOCX(t, body), "x.docx", MimeDOCX)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_BadPDF(t *testing.T) {
	_, err := NewExtractor(nil).Extract([]byte("not a pdf"), "x.pdf", MimePDF)
	assert.ErrorIs(t, err, ErrPDF)
}

func TestKindOf(t *testing.T) {
	k, err := KindOf("a.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, PDF, k)

	k, err = KindOf("a.DOCX", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, DOCX, k)

	k, err = KindOf("a.docx", MimeDOCX+"; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, DOCX, k)

	_, err = KindOf("a.txt", "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = KindOf("a.pdf", "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedType, "a declared type wins over the extension")
}

func TestScrub(t *testing.T) {
	in := "See https://example.com/terms or www.example.org. Email jane.doe@example.co.uk. " +
		"Prepared by Smith & Jones LLP and Baker Walsh LLP for Acme Inc. today."
	out := Scrub(in)

	assert.NotContains(t, out, "example.com")
	assert.NotContains(t, out, "example.org")
	assert.NotContains(t, out, "jane.doe")
	assert.NotContains(t, out, "Smith")
	assert.NotContains(t, out, "Walsh")
	assert.NotContains(t, out, "Acme")
	assert.Contains(t, out, "[URL removed]")
	assert.Contains(t, out, "[email removed]")
	assert.Contains(t, out, "[law firm removed]")
	assert.Contains(t, out, "today.")
}

func TestScrub_LeavesOrdinaryText(t *testing.T) {
	in := "The Tenant shall pay the Landlord £950 per month. The company incorporated in 2001."
	assert.Equal(t, in, Scrub(in))
}
