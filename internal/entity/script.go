package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrScriptNotFound = errors.New("script not found")

// Script is the call and message copy an operator reads from when approaching
// a business type.
type Script struct {
	ID             string     `json:"id"`
	BusinessType   string     `json:"businessType"`
	ColdCallScript string     `json:"coldCallScript"`
	MessageScript  string     `json:"messageScript"`
	Language       string     `json:"language"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

const DefaultScriptLanguage = "english"

var ScriptLanguages = []string{"english", "hindi", "marathi"}

// ScriptKind selects which half of a script is shown.
type ScriptKind string

const (
	ScriptKindBoth    ScriptKind = "both"
	ScriptKindCall    ScriptKind = "call"
	ScriptKindMessage ScriptKind = "message"
)

// ParseScriptKind defaults to both; ok is false for anything unrecognised.
func ParseScriptKind(s string) (ScriptKind, bool) {
	switch k := ScriptKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ScriptKindBoth, true
	case ScriptKindBoth, ScriptKindCall, ScriptKindMessage:
		return k, true
	}
	return ScriptKindBoth, false
}
