package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageRef points at an image attached to a post or page. Path is only set
// for uploads held in our own storage bucket; stock-photo URLs keep it empty.
// The Path is what lets the editor delete the stored object on replacement.
type ImageRef struct {
	URL  string `json:"url"`
	Path string `json:"path,omitempty"`
}

// Stored returns true when the image lives in our storage bucket.
func (r ImageRef) Stored() bool {
	return r.Path != ""
}

// ImageRefList is persisted as a JSON column. Index 0 is the cover image,
// index n+1 belongs to section n.
type ImageRefList []ImageRef

func (l ImageRefList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *ImageRefList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ImageRefList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// URLs flattens the list to plain URL strings, in stored order.
func (l ImageRefList) URLs() []string {
	urls := make([]string, len(l))
	for i, ref := range l {
		urls[i] = ref.URL
	}
	return urls
}

// StringList is persisted as a JSON array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
