package ir

import (
	"encoding/json"
	"fmt"
)

// JSON serialization support for the schema tree.
// Every entry carries a "kind" field for discrimination.

// MarshalJSON implements json.Marshaler for Root.
func (r *Root) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Nested []Entry `json:"nested"`
	}{
		Nested: nonNilEntries(r.Nested),
	})
}

// MarshalJSON implements json.Marshaler for Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("cannot marshal %s entry without payload", e.Kind)
	}
	switch e.Kind {
	case KindNamespace:
		return json.Marshal(&struct {
			Kind   string  `json:"kind"`
			Name   string  `json:"name"`
			Doc    string  `json:"doc,omitempty"`
			Nested []Entry `json:"nested"`
		}{
			Kind:   "namespace",
			Name:   e.Namespace.Name,
			Doc:    e.Namespace.Doc,
			Nested: nonNilEntries(e.Namespace.Nested),
		})
	case KindService:
		methods := e.Service.Methods
		if methods == nil {
			methods = []Method{}
		}
		return json.Marshal(&struct {
			Kind    string   `json:"kind"`
			Name    string   `json:"name"`
			Doc     string   `json:"doc,omitempty"`
			Methods []Method `json:"methods"`
		}{
			Kind:    "service",
			Name:    e.Service.Name,
			Doc:     e.Service.Doc,
			Methods: methods,
		})
	case KindMessage:
		fields := e.Message.Fields
		if fields == nil {
			fields = []Field{}
		}
		return json.Marshal(&struct {
			Kind   string  `json:"kind"`
			Name   string  `json:"name"`
			Doc    string  `json:"doc,omitempty"`
			Fields []Field `json:"fields"`
			Nested []Entry `json:"nested,omitempty"`
		}{
			Kind:   "message",
			Name:   e.Message.Name,
			Doc:    e.Message.Doc,
			Fields: fields,
			Nested: e.Message.Nested,
		})
	default:
		values := e.Enum.Values
		if values == nil {
			values = []EnumValue{}
		}
		return json.Marshal(&struct {
			Kind   string      `json:"kind"`
			Name   string      `json:"name"`
			Doc    string      `json:"doc,omitempty"`
			Values []EnumValue `json:"values"`
		}{
			Kind:   "enum",
			Name:   e.Enum.Name,
			Doc:    e.Enum.Doc,
			Values: values,
		})
	}
}

// MarshalJSON implements json.Marshaler for Method.
func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name           string `json:"name"`
		Doc            string `json:"doc,omitempty"`
		RequestType    string `json:"requestType"`
		ResponseType   string `json:"responseType"`
		RequestStream  bool   `json:"requestStream,omitempty"`
		ResponseStream bool   `json:"responseStream,omitempty"`
	}{
		Name:           m.Name,
		Doc:            m.Doc,
		RequestType:    m.RequestType,
		ResponseType:   m.ResponseType,
		RequestStream:  m.RequestStream,
		ResponseStream: m.ResponseStream,
	})
}

// MarshalJSON implements json.Marshaler for Field.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string `json:"name"`
		Number   int32  `json:"number"`
		Type     string `json:"type"`
		Repeated bool   `json:"repeated,omitempty"`
		Optional bool   `json:"optional,omitempty"`
		Map      bool   `json:"map,omitempty"`
		KeyType  string `json:"keyType,omitempty"`
	}{
		Name:     f.Name,
		Number:   f.Number,
		Type:     f.Type,
		Repeated: f.Repeated,
		Optional: f.Optional,
		Map:      f.Map,
		KeyType:  f.KeyType,
	})
}

// MarshalJSON implements json.Marshaler for EnumValue.
func (v EnumValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name   string `json:"name"`
		Number int32  `json:"number"`
		Doc    string `json:"doc,omitempty"`
	}{
		Name:   v.Name,
		Number: v.Number,
		Doc:    v.Doc,
	})
}

func nonNilEntries(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}
