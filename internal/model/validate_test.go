package model

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name                    string
		title, desc, text, back string
		field                   string
	}{
		{name: "ok", title: "Gym", desc: "leg day", text: "#000", back: "#ffffff"},
		{name: "blank name", title: "  ", desc: "x", text: "#000", back: "#fff", field: "name"},
		{name: "no description", title: "Gym", desc: "", text: "#000", back: "#fff", field: "description"},
		{name: "bad text colour", title: "Gym", desc: "x", text: "black", back: "#fff", field: "text colour"},
		{name: "bad back colour", title: "Gym", desc: "x", text: "#000", back: "#ggg", field: "background colour"},
		{name: "short hex", title: "Gym", desc: "x", text: "#00", back: "#fff", field: "text colour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTask(tt.title, tt.desc, tt.text, tt.back)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestParseDue(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
		{"2024-03-01 09:30", time.Date(2024, 3, 1, 9, 30, 0, 0, loc)},
		{"2024-03-01T09:30", time.Date(2024, 3, 1, 9, 30, 0, 0, loc)},
		{"2024-03-01T09:30:00Z", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDue(tt.in, loc)
		if err != nil {
			t.Fatalf("ParseDue(%q): %v", tt.in, err)
		}
		if got == nil || !got.Equal(tt.want) {
			t.Errorf("ParseDue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got, err := ParseDue("   ", loc); got != nil || err != nil {
		t.Errorf("blank due = %v, %v; want nil, nil", got, err)
	}
	if _, err := ParseDue("next tuesday", loc); err == nil {
		t.Error("expected error for unparseable due time")
	}
}
