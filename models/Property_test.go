package models

import (
	"encoding/json"
	"strings"
	"testing"
)

// The Images/Amenities columns are stored as JSON strings; responses must
// emit them as arrays even when the property rides inside another record.
func TestPropertyMarshalEmitsArrays(t *testing.T) {
	p := &Property{
		Title:     "Lakeview Flat",
		Images:    `["a.jpg","b.jpg"]`,
		Amenities: `["parking"]`,
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal property: %v", err)
	}
	if !strings.Contains(string(out), `"images":["a.jpg","b.jpg"]`) {
		t.Errorf("images not emitted as array: %s", out)
	}
	if !strings.Contains(string(out), `"amenities":["parking"]`) {
		t.Errorf("amenities not emitted as array: %s", out)
	}
}

func TestPropertyMarshalNested(t *testing.T) {
	p := &Property{Title: "Hillside", Images: `["front.jpg"]`}

	cases := []struct {
		name string
		v    interface{}
	}{
		{"purchase", Purchase{ID: 1, Property: p}},
		{"tour", PropertyTour{ID: 1, Property: p}},
		{"booking", Booking{Property: p}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := json.Marshal(tc.v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(out), `"images":["front.jpg"]`) {
				t.Errorf("nested property images not emitted as array: %s", out)
			}
		})
	}
}
