package attachment

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIMEType is used when neither the item nor the download names a type.
const DefaultMIMEType = "application/octet-stream"

// ResolveMIMEType applies the explicit override, then the response header.
// Values that do not parse as a media type are skipped.
func ResolveMIMEType(override string, header http.Header) string {
	for _, candidate := range []string{override, header.Get("Content-Type")} {
		if value, ok := validMediaType(candidate); ok {
			return value
		}
	}
	return DefaultMIMEType
}

func validMediaType(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, "\r\n") {
		return "", false
	}
	if _, _, err := mime.ParseMediaType(value); err != nil {
		return "", false
	}
	return value, true
}

// sniffMIME detects the content type from the body. The result is only
// compared against the resolved type for diagnostics.
func sniffMIME(body []byte) *mimetype.MIME {
	return mimetype.Detect(body)
}

// Metadata is the delivery metadata derived for one download.
type Metadata struct {
	FileName string
	MIMEType string
}

func deriveMetadata(req *Request, header http.Header) Metadata {
	return Metadata{
		FileName: ResolveFileName(req.FileName, header.Get("Content-Disposition"), req.AttachmentURL),
		MIMEType: ResolveMIMEType(req.AdditionalFields.AttachmentMimeType, header),
	}
}
