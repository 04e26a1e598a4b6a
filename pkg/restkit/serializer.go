package restkit

import (
	"encoding/json"
	"fmt"
	"net/url"

	"gopkg.in/yaml.v3"
)

// Serializer converts request bodies to wire form and decodes response
// bodies back into Go values. The transport takes Content-Type and Accept
// headers from it.
type Serializer interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct{}

// ContentType returns the JSON media type.
func (JSONSerializer) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON body: %w", err)
	}

	return data, nil
}

// Unmarshal decodes JSON data into v.
func (JSONSerializer) Unmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("unmarshaling JSON body: %w", err)
	}

	return nil
}

// YAMLSerializer speaks YAML for the handful of APIs that accept it.
type YAMLSerializer struct{}

// ContentType returns the YAML media type.
func (YAMLSerializer) ContentType() string {
	return "application/x-yaml"
}

// Marshal encodes v as YAML.
func (YAMLSerializer) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML body: %w", err)
	}

	return data, nil
}

// Unmarshal decodes YAML data into v.
func (YAMLSerializer) Unmarshal(data []byte, v any) error {
	err := yaml.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("unmarshaling YAML body: %w", err)
	}

	return nil
}

// FormSerializer sends bodies as application/x-www-form-urlencoded. It
// accepts url.Values or map[string]string bodies; Unmarshal expects a
// *url.Values destination.
type FormSerializer struct{}

// ContentType returns the form-urlencoded media type.
func (FormSerializer) ContentType() string {
	return "application/x-www-form-urlencoded"
}

// Marshal encodes the body as a URL-encoded form.
func (FormSerializer) Marshal(v any) ([]byte, error) {
	switch body := v.(type) {
	case url.Values:
		return []byte(body.Encode()), nil
	case map[string]string:
		values := url.Values{}
		for key, value := range body {
			values.Set(key, value)
		}

		return []byte(values.Encode()), nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrUnsupportedFormBody, v)
	}
}

// Unmarshal parses URL-encoded data into a *url.Values destination.
func (FormSerializer) Unmarshal(data []byte, v any) error {
	dest, ok := v.(*url.Values)
	if !ok {
		return fmt.Errorf("%w, got destination %T", ErrUnsupportedFormBody, v)
	}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		return fmt.Errorf("parsing form body: %w", err)
	}

	*dest = values

	return nil
}
