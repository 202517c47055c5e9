package cli

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// ProjectFileExtension is the extension of C# project files
const ProjectFileExtension = ".csproj"

// ProjectResolver resolves the namespace generated classes are emitted into
type ProjectResolver struct {
	override string

	mu    sync.Mutex
	cache map[string]string // directory to resolved project namespace
}

// NewProjectResolver creates a resolver. A non-empty override wins over
// everything found on disk.
func NewProjectResolver(override string) *ProjectResolver {
	return &ProjectResolver{
		override: strings.TrimSpace(override),
		cache:    make(map[string]string),
	}
}

// ResolveModule returns the override, else the class's namespace, else the
// namespace of the project holding the class's file.
func (r *ProjectResolver) ResolveModule(class models.ClassDecl) (string, error) {
	if r.override != "" {
		return r.override, nil
	}
	if class.Namespace != "" {
		return class.Namespace, nil
	}
	if class.Path == "" {
		return "", errors.NewValidationError("namespace", "cannot determine a namespace for "+class.Name).
			WithSuggestions("Declare a namespace in the file", "Pass --namespace explicitly")
	}
	return r.ResolveDirectory(filepath.Dir(class.Path))
}

// ResolveDirectory returns the override, else the namespace of the nearest
// project file at or above dir, else the name of dir itself.
func (r *ProjectResolver) ResolveDirectory(dir string) (string, error) {
	if r.override != "" {
		return r.override, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if namespace, ok := r.cache[absDir]; ok {
		return namespace, nil
	}

	namespace, err := r.findProjectNamespace(absDir)
	if err != nil {
		return "", err
	}
	if namespace == "" {
		namespace = sanitizeNamespace(filepath.Base(absDir))
	}
	r.cache[absDir] = namespace
	return namespace, nil
}

// findProjectNamespace walks up from dir to the first directory holding a
// project file.
func (r *ProjectResolver) findProjectNamespace(dir string) (string, error) {
	for current := dir; ; {
		project, err := findProjectFile(current)
		if err != nil {
			return "", err
		}
		if project != "" {
			return readProjectNamespace(project)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// findProjectFile returns the first project file in dir, by name
func findProjectFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ProjectFileExtension))
	if err != nil {
		return "", errors.WrapFileSystemError("search", dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}

// projectFile is the part of a .csproj this tool reads
type projectFile struct {
	PropertyGroups []struct {
		RootNamespace string `xml:"RootNamespace"`
		AssemblyName  string `xml:"AssemblyName"`
	} `xml:"PropertyGroup"`
}

// readProjectNamespace returns RootNamespace, else AssemblyName, else the
// project file's stem.
func readProjectNamespace(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapFileSystemError("read", path, err)
	}

	var project projectFile
	if err := xml.Unmarshal(data, &project); err != nil {
		return "", errors.WrapParseError(path, err).
			WithLocation(errors.SourceLocation{File: path})
	}

	var assemblyName string
	for _, group := range project.PropertyGroups {
		if ns := strings.TrimSpace(group.RootNamespace); ns != "" {
			return ns, nil
		}
		if assemblyName == "" {
			assemblyName = strings.TrimSpace(group.AssemblyName)
		}
	}
	if assemblyName != "" {
		return sanitizeNamespace(assemblyName), nil
	}
	return sanitizeNamespace(strings.TrimSuffix(filepath.Base(path), ProjectFileExtension)), nil
}

// sanitizeNamespace turns a file or directory name into a namespace the way
// the .NET SDK derives RootNamespace from a project name.
func sanitizeNamespace(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '.' || r == '_':
			sb.WriteRune(r)
		case r == '-' || r == ' ':
			sb.WriteRune('_')
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r > 127:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
