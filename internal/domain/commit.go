package domain

import "time"

// Commit is a single entry of a version's history.
type Commit struct {
	Hash    string    `json:"hash"    yaml:"hash"`
	Author  string    `json:"author"  yaml:"author"`
	Email   string    `json:"email"   yaml:"email"`
	When    time.Time `json:"date"    yaml:"date"`
	Message string    `json:"message" yaml:"message"`
	Tags    []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// VersionLog pairs a version with its commit history.
type VersionLog struct {
	Version Version  `json:"version" yaml:"version"`
	Tag     string   `json:"tag"     yaml:"tag"`
	Commits []Commit `json:"commits" yaml:"commits"`
}
