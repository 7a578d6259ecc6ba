package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FormFile is a file part of a multipart form.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// FormField is a plain text part of a multipart form.
type FormField struct {
	Name  string
	Value string
}

// MultipartForm is an ordered multipart/form-data payload. Parts are written
// files first, then fields, each in insertion order.
type MultipartForm struct {
	Files  []FormFile
	Fields []FormField
}

func (f *MultipartForm) AddFile(field, fileName, contentType string, content []byte) {
	f.Files = append(f.Files, FormFile{
		Field:       field,
		FileName:    fileName,
		ContentType: contentType,
		Content:     content,
	})
}

func (f *MultipartForm) AddField(name, value string) {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

// Encode renders the form and returns the body with its boundary-bearing content type.
func (f *MultipartForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range f.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(
			`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.Field),
			escapeQuotes(file.FileName),
		))
		contentType := stripLineBreaks(file.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", file.Field, err)
		}
	}
	for _, field := range f.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "", "\n", "")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// stripLineBreaks keeps a value on its own header line.
func stripLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}
