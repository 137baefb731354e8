// Package model defines the data structures exchanged with the bug-injection pipeline.
package model

// Bug is the bug class the pipeline picked for the selected region.
type Bug struct {
	Name          string  `json:"name" yaml:"name"`
	Description   string  `json:"description" yaml:"description"`
	Justification *string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// VerilogLine is a single source line before and, once mutated, after the change.
type VerilogLine struct {
	LineNumber    int     `json:"lineNumber" yaml:"lineNumber"`
	Before        string  `json:"before" yaml:"before"`
	After         *string `json:"after,omitempty" yaml:"after,omitempty"`
	Justification *string `json:"justification,omitempty" yaml:"justification,omitempty"`
}
