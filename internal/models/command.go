// Package models defines the domain types for Munin.
package models

// Command is the structured action produced by the LLM command interpreter.
// The interpreter's JSON output is trusted; fields irrelevant to an action
// are simply left empty.
type Command struct {
	Action string `json:"action"`

	// search
	Keyword string `json:"keyword,omitempty"`

	// read / write / append / create
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content,omitempty"`

	// assignment
	Assignment string `json:"assignment,omitempty"`

	// generate_note
	Source       string `json:"source,omitempty"`
	NoteTitle    string `json:"note_title,omitempty"`
	Location     string `json:"location,omitempty"`
	Followup     string `json:"followup,omitempty"`
	UploadedFile bool   `json:"uploaded_file,omitempty"`

	// settings
	Setting string `json:"setting,omitempty"`
	Value   string `json:"value,omitempty"`

	// chat
	Message string `json:"message,omitempty"`
}

// Known command actions.
const (
	ActionSearch       = "search"
	ActionRead         = "read"
	ActionWrite        = "write"
	ActionAppend       = "append"
	ActionCreate       = "create"
	ActionAssignment   = "assignment"
	ActionGenerateNote = "generate_note"
	ActionSettings     = "settings"
	ActionVault        = "vault"
	ActionChat         = "chat"
)
