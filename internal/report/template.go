package report

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// auditTemplate builds the minimal Word package the audit summary is rendered
// into. Generating the template in memory keeps binary assets out of the
// repository; the writer fills the placeholders and saves the result.
func auditTemplate() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{
			name: "[Content_Types].xml",
			body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		},
		{
			name: "_rels/.rels",
			body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		},
		{
			// Required by some parsers
			name: "word/_rels/document.xml.rels",
			body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`,
		},
		{
			// Minimal document with placeholders
			name: "word/document.xml",
			body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Sheetsweep Cleanup Audit</w:t></w:r></w:p>
<w:p><w:r><w:t>Source: {{Source}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Rows Removed: {{RowsRemoved}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`,
		},
	}

	for _, part := range parts {
		entry, err := w.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create template part %s: %w", part.name, err)
		}
		if _, err := entry.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("failed to write template part %s: %w", part.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize template: %w", err)
	}
	return buf.Bytes(), nil
}
