package models

import "github.com/toyz/dudgen/internal/errors"

// GeneratedFileExtension is appended to every artifact key when written to disk
const GeneratedFileExtension = ".g.cs"

// TargetMetadata is the per-candidate generation input
type TargetMetadata struct {
	Name               string   // class base name
	Interface          string   // governing interface name
	Module             string   // namespace the artifacts are emitted into
	Usings             []string // caller-supplied using directives, without "using" and ";"
	InterfaceNamespace string   // namespace declaring the interface, if known
}

// Candidate pairs target metadata with the interface members to generate
type Candidate struct {
	Target   TargetMetadata
	Members  []MemberDescriptor
	Location errors.SourceLocation
	OutDir   string // directory the artifacts are written to; empty means caller decides
}

// GeneratedArtifact is one generated source file
type GeneratedArtifact struct {
	Key     string // <Name>Proxy or <Name>Dud
	Content string
	OutDir  string
}

// FileName returns the on-disk file name of the artifact
func (a GeneratedArtifact) FileName() string {
	return a.Key + GeneratedFileExtension
}
