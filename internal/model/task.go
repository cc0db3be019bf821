package model

import "time"

// Default colours for a newly created task.
const (
	DefaultTextColour = "#000000"
	DefaultBackColour = "#ffffff"
)

// Task is a user-created to-do record with display colours, an optional
// due time and an optional image reference.
type Task struct {
	// ID is assigned by the store on insert and never reused.
	ID int64 `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// TextColour and BackColour are hex colour strings such as "#000000".
	TextColour string `json:"text_colour"`
	BackColour string `json:"back_colour"`

	// DateTime is the optional due time.
	DateTime *time.Time `json:"date_time,omitempty"`

	// ImageURI references a local image file. The store never reads it.
	ImageURI *string `json:"image_uri,omitempty"`
}

// IsPastDeadline reports whether the task is due strictly before now.
// A task without a due time is never past its deadline.
func (t Task) IsPastDeadline(now time.Time) bool {
	return IsPastDeadline(t.DateTime, now)
}

// HasImage reports whether an image reference is attached.
func (t Task) HasImage() bool {
	return t.ImageURI != nil && *t.ImageURI != ""
}

// IsPastDeadline reports whether due is set and earlier than now.
func IsPastDeadline(due *time.Time, now time.Time) bool {
	return due != nil && due.Before(now)
}
