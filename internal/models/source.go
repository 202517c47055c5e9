package models

import "github.com/toyz/dudgen/internal/errors"

// SourceFile is the declaration-level view of one parsed C# file
type SourceFile struct {
	Path       string
	Namespace  string // first namespace declared in the file
	Usings     []string
	Interfaces []InterfaceDecl
	Classes    []ClassDecl
}

// InterfaceDecl is an interface declaration with its converted members
type InterfaceDecl struct {
	Name           string
	Namespace      string
	TypeParameters []string
	Bases          []string
	Members        []MemberDescriptor
	Skipped        []SkippedMember
	Location       errors.SourceLocation
}

// IsGeneric reports whether the interface declares type parameters
func (i InterfaceDecl) IsGeneric() bool {
	return len(i.TypeParameters) > 0
}

// QualifiedName returns Namespace.Name when the namespace is known
func (i InterfaceDecl) QualifiedName() string {
	if i.Namespace == "" {
		return i.Name
	}
	return i.Namespace + "." + i.Name
}

// SkippedMember records an interface member left out of the implementation contract
type SkippedMember struct {
	Name     string
	Reason   string
	Fatal    bool // the owning candidate cannot be generated
	Location errors.SourceLocation
}

// ClassDecl is a class, struct or record declaration
type ClassDecl struct {
	Name       string
	Kind       string // class, struct or record
	Namespace  string
	Attributes []string
	Bases      []string
	Usings     []string // using directives of the declaring file
	Path       string
	Location   errors.SourceLocation
}
