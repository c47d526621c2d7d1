package appstore

import "encoding/json"

// JSON:API envelopes used by App Store Connect.

type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type relationship struct {
	Data any `json:"data"`
}

func toOne(resourceType, id string) relationship {
	return relationship{Data: resourceIdentifier{Type: resourceType, ID: id}}
}

type resourceObject struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    any                     `json:"attributes,omitempty"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type requestDocument struct {
	Data any `json:"data"`
}

type resource[A any] struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes A      `json:"attributes"`
}

type pageLinks struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
}

type singleDocument[A any] struct {
	Data resource[A] `json:"data"`
}

type listDocument[A any] struct {
	Data  []resource[A] `json:"data"`
	Links pageLinks     `json:"links"`
}

type errorDocument struct {
	Errors []struct {
		ID     string          `json:"id,omitempty"`
		Status string          `json:"status"`
		Code   string          `json:"code"`
		Title  string          `json:"title"`
		Detail string          `json:"detail"`
		Source json.RawMessage `json:"source,omitempty"`
	} `json:"errors"`
}

func (d errorDocument) details() []string {
	out := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		switch {
		case e.Detail != "":
			out = append(out, e.Detail)
		case e.Title != "":
			out = append(out, e.Title)
		}
	}
	return out
}
