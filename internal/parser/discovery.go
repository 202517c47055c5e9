package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/dudgen/internal/annotations"
	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// NoticeLevel is the severity of a discovery notice
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
)

// String returns the string representation of the level
func (l NoticeLevel) String() string {
	if l == NoticeWarning {
		return "warning"
	}
	return "info"
}

// Notice is a non-fatal observation made while discovering candidates
type Notice struct {
	Level    NoticeLevel
	Message  string
	Location errors.SourceLocation
}

// DiscoveryOptions configures Discover
type DiscoveryOptions struct {
	Markers        annotations.MarkerRegistry // defaults to annotations.DefaultRegistry()
	InheritMembers bool
	Modules        ModuleResolver // nil means the class namespace is the module
}

// DiscoveryResult holds the candidates found in a set of source files
type DiscoveryResult struct {
	Candidates []models.Candidate
	Notices    []Notice
	Errors     *errors.MultipleErrors
}

// Discover finds every class carrying a marker attribute and pairs it with
// the interface it implements. Failures are local to one class; the other
// candidates are still returned.
func Discover(files []*models.SourceFile, opts DiscoveryOptions) *DiscoveryResult {
	if opts.Markers == nil {
		opts.Markers = annotations.DefaultRegistry()
	}

	d := &discovery{
		opts:   opts,
		index:  newInterfaceIndex(files),
		result: &DiscoveryResult{Errors: errors.NewMultipleErrors()},
	}

	for _, file := range files {
		for _, class := range file.Classes {
			if !d.isMarked(class) {
				continue
			}
			d.discoverClass(class)
		}
	}
	return d.result
}

type discovery struct {
	opts   DiscoveryOptions
	index  *interfaceIndex
	result *DiscoveryResult
}

func (d *discovery) isMarked(class models.ClassDecl) bool {
	for _, attr := range class.Attributes {
		if d.opts.Markers.IsMarked(attr) {
			return true
		}
	}
	return false
}

func (d *discovery) notice(level NoticeLevel, loc errors.SourceLocation, format string, args ...interface{}) {
	d.result.Notices = append(d.result.Notices, Notice{
		Level:    level,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

func (d *discovery) discoverClass(class models.ClassDecl) {
	var resolved []*models.InterfaceDecl
	for _, base := range class.Bases {
		if iface := d.index.resolve(base, class.Namespace, class.Usings); iface != nil {
			resolved = append(resolved, iface)
		}
	}

	switch {
	case len(resolved) == 0:
		d.notice(NoticeInfo, class.Location, "%s has no governing interface, skipped", class.Name)
		return
	case len(resolved) > 1:
		d.notice(NoticeWarning, class.Location, "%s implements %d interfaces, generating for %s only",
			class.Name, len(resolved), resolved[0].Name)
	}

	iface := resolved[0]
	if iface.IsGeneric() {
		d.notice(NoticeWarning, class.Location, "%s implements generic interface %s<%s>, skipped",
			class.Name, iface.Name, strings.Join(iface.TypeParameters, ", "))
		return
	}

	members, err := d.collectMembers(iface)
	if err != nil {
		d.result.Errors.Add(withClass(err, class))
		return
	}

	module := class.Namespace
	if d.opts.Modules != nil {
		resolvedModule, err := d.opts.Modules.ResolveModule(class)
		if err != nil {
			d.result.Errors.Add(withClass(err, class))
			return
		}
		module = resolvedModule
	}

	d.result.Candidates = append(d.result.Candidates, models.Candidate{
		Target: models.TargetMetadata{
			Name:               class.Name,
			Interface:          iface.Name,
			Module:             module,
			Usings:             append([]string(nil), class.Usings...),
			InterfaceNamespace: iface.Namespace,
		},
		Members:  members,
		Location: class.Location,
		OutDir:   dirOf(class.Path),
	})
}

// collectMembers returns the interface's own members followed by inherited
// ones, depth-first and de-duplicated by signature.
func (d *discovery) collectMembers(root *models.InterfaceDecl) ([]models.MemberDescriptor, error) {
	members := make([]models.MemberDescriptor, 0, len(root.Members))
	seenSignatures := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(iface *models.InterfaceDecl) error
	visit = func(iface *models.InterfaceDecl) error {
		if visited[iface.QualifiedName()] {
			return nil
		}
		visited[iface.QualifiedName()] = true

		for _, skipped := range iface.Skipped {
			if skipped.Fatal {
				return errors.NewUnsupportedMemberError(skipped.Name, skipped.Reason).
					WithLocation(skipped.Location)
			}
			d.notice(NoticeWarning, skipped.Location, "%s.%s skipped: %s", iface.Name, skipped.Name, skipped.Reason)
		}

		for _, member := range iface.Members {
			signature := member.Signature()
			if seenSignatures[signature] {
				continue
			}
			seenSignatures[signature] = true
			members = append(members, member)
		}

		if !d.opts.InheritMembers {
			return nil
		}
		for _, base := range iface.Bases {
			parent := d.index.resolve(base, iface.Namespace, d.index.usingsOf(iface))
			if parent == nil {
				d.notice(NoticeWarning, iface.Location, "base interface %s of %s was not found in the scanned files",
					base, iface.Name)
				continue
			}
			if parent.IsGeneric() {
				d.notice(NoticeWarning, iface.Location, "generic base interface %s of %s is not inherited",
					base, iface.Name)
				continue
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return members, nil
}

func withClass(err error, class models.ClassDecl) error {
	if base, ok := err.(*errors.BaseError); ok {
		if base.Location().IsEmpty() {
			base = base.WithLocation(class.Location)
		}
		return base.WithContext("class", class.Name)
	}
	return errors.Wrapf(errors.GenerationErrorCode, err, "failed to discover %s", class.Name).
		WithLocation(class.Location)
}

// interfaceIndex looks interfaces up the way the C# compiler would for a
// name written in a base list, limited to the scanned files.
type interfaceIndex struct {
	byQualified map[string]*models.InterfaceDecl
	bySimple    map[string][]*models.InterfaceDecl
	usings      map[string][]string // qualified interface name to the declaring file's usings
}

func newInterfaceIndex(files []*models.SourceFile) *interfaceIndex {
	idx := &interfaceIndex{
		byQualified: make(map[string]*models.InterfaceDecl),
		bySimple:    make(map[string][]*models.InterfaceDecl),
		usings:      make(map[string][]string),
	}
	for _, file := range files {
		for i := range file.Interfaces {
			iface := &file.Interfaces[i]
			key := indexKey(iface.QualifiedName(), len(iface.TypeParameters))
			if _, exists := idx.byQualified[key]; exists {
				continue
			}
			idx.byQualified[key] = iface
			simple := indexKey(iface.Name, len(iface.TypeParameters))
			idx.bySimple[simple] = append(idx.bySimple[simple], iface)
			idx.usings[key] = file.Usings
		}
	}
	return idx
}

func (idx *interfaceIndex) usingsOf(iface *models.InterfaceDecl) []string {
	return idx.usings[indexKey(iface.QualifiedName(), len(iface.TypeParameters))]
}

// resolve finds the interface a base-list entry names, or nil when the
// entry is a class or a type outside the scanned files.
func (idx *interfaceIndex) resolve(base, namespace string, usings []string) *models.InterfaceDecl {
	name, arity := splitBaseName(base)
	if name == "" {
		return nil
	}

	// enclosing namespaces, innermost first
	for ns := namespace; ; ns = parentNamespace(ns) {
		if iface, ok := idx.byQualified[indexKey(qualify(ns, name), arity)]; ok {
			return iface
		}
		if ns == "" {
			break
		}
	}

	for _, using := range usings {
		using = strings.TrimPrefix(strings.TrimPrefix(using, "global::"), "static ")
		if alias, target, ok := strings.Cut(using, "="); ok {
			alias = strings.TrimSpace(alias)
			target = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(target), "global::"))
			if alias == name || strings.HasPrefix(name, alias+".") {
				resolvedName := target + strings.TrimPrefix(name, alias)
				if iface, ok := idx.byQualified[indexKey(resolvedName, arity)]; ok {
					return iface
				}
			}
			continue
		}
		if iface, ok := idx.byQualified[indexKey(qualify(using, name), arity)]; ok {
			return iface
		}
	}

	// a unique simple-name match covers interfaces whose namespace was not
	// imported through a using directive of the same file
	if !strings.Contains(name, ".") {
		if matches := idx.bySimple[indexKey(name, arity)]; len(matches) == 1 {
			return matches[0]
		}
	}
	return nil
}

// splitBaseName strips the global alias and generic arguments from a base
// type, returning the dotted name and its arity.
func splitBaseName(base string) (string, int) {
	base = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(base), "global::"))
	base = strings.TrimSuffix(base, "?")

	var name strings.Builder
	arity, depth, nested := 0, 0, 0
	for _, r := range base {
		switch {
		case r == '<':
			if depth == 0 {
				arity = 1
			}
			depth++
		case r == '>':
			depth--
		case r == '(' || r == '[':
			nested++
		case r == ')' || r == ']':
			nested--
		case r == ',' && depth == 1 && nested == 0:
			arity++
		case depth == 0 && nested == 0 && r != ' ':
			name.WriteRune(r)
		}
	}
	return name.String(), arity
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func parentNamespace(ns string) string {
	if idx := strings.LastIndex(ns, "."); idx >= 0 {
		return ns[:idx]
	}
	return ""
}

func indexKey(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return fmt.Sprintf("%s`%d", name, arity)
}
