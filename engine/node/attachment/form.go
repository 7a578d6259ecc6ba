package attachment

import (
	"fmt"
	"strconv"

	"github.com/compozy/chatwoot-nodes/engine/transport"
)

// FileField is the multipart field carrying the uploaded file.
const FileField = "attachments[]"

// jsonFields holds the already parsed structured fields of a request.
type jsonFields struct {
	contentAttributes    any
	hasContentAttributes bool
	templateParams       any
	hasTemplateParams    bool
}

func parseJSONFields(fields *AdditionalFields) (jsonFields, error) {
	var out jsonFields
	var err error
	out.contentAttributes, out.hasContentAttributes, err = ParseJSONField(
		labelContentAttributes,
		fields.ContentAttributes,
	)
	if err != nil {
		return jsonFields{}, err
	}
	out.templateParams, out.hasTemplateParams, err = ParseJSONField(labelTemplateParams, fields.TemplateParams)
	if err != nil {
		return jsonFields{}, err
	}
	return out, nil
}

// buildForm assembles the message submission: the file first, then each
// optional field that is present.
func buildForm(
	fields *AdditionalFields,
	parsed jsonFields,
	body []byte,
	meta Metadata,
) (*transport.MultipartForm, error) {
	form := &transport.MultipartForm{}
	form.AddFile(FileField, meta.FileName, meta.MIMEType, body)
	if fields.Content != "" {
		form.AddField("content", fields.Content)
	}
	if fields.MessageType != "" {
		form.AddField("message_type", fields.MessageType)
	}
	if fields.Private != nil {
		form.AddField("private", strconv.FormatBool(*fields.Private))
	}
	if fields.ContentType != "" {
		form.AddField("content_type", fields.ContentType)
	}
	if parsed.hasContentAttributes {
		encoded, err := encodeJSON(parsed.contentAttributes)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", labelContentAttributes, err)
		}
		form.AddField("content_attributes", encoded)
	}
	if parsed.hasTemplateParams {
		encoded, err := encodeJSON(parsed.templateParams)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", labelTemplateParams, err)
		}
		form.AddField("template_params", encoded)
	}
	return form, nil
}
