package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

const exampleManifest = `targets:
  - name: ExampleService
    interface: IExampleService
    module: TestProject
    usings: [DudNet.Attributes]
    members:
      - {kind: method, name: ExampleFunction, returns: void}
      - kind: method
        name: ExampleFunctionWithArgumentAndReturn
        returns: int
        parameters: [{type: int, name: number}]
      - {kind: property, name: FirstName, type: string, get: true, set: true}
  - name: Clock
    interface: IClock
    output_dir: generated
    members:
      - {kind: getter, name: Now, type: DateTime, access: internal}
      - kind: method
        name: Convert
        returns: T
        type_parameters: [T]
        constraints: ["T : struct"]
        parameters: [{type: T, name: value, modifier: in}]
`

func TestParse(t *testing.T) {
	m, err := Parse("/work/dudgen.targets.yaml", []byte(exampleManifest))
	require.NoError(t, err)
	require.Len(t, m.Targets, 2)

	candidates := m.Candidates("Fallback")
	require.Len(t, candidates, 2)

	example := candidates[0]
	assert.Equal(t, models.TargetMetadata{
		Name:      "ExampleService",
		Interface: "IExampleService",
		Module:    "TestProject",
		Usings:    []string{"DudNet.Attributes"},
	}, example.Target)
	assert.Equal(t, "/work", example.OutDir)
	assert.Equal(t, errors.SourceLocation{File: "/work/dudgen.targets.yaml", Line: 2}, example.Location)

	names := make([]string, 0, len(example.Members))
	for _, member := range example.Members {
		names = append(names, member.Name)
	}
	assert.Equal(t, []string{"ExampleFunction", "ExampleFunctionWithArgumentAndReturn", "get_FirstName", "set_FirstName"}, names)
	assert.True(t, example.Members[0].ReturnsVoid)
	assert.Equal(t, []models.Parameter{{Type: "int", Name: "number"}}, example.Members[1].Parameters)

	clock := candidates[1]
	assert.Equal(t, "Fallback", clock.Target.Module)
	assert.Equal(t, filepath.Join("/work", "generated"), clock.OutDir)
	assert.Equal(t, 13, clock.Location.Line)
	require.Len(t, clock.Members, 2)
	assert.Equal(t, models.PropertyGetter, clock.Members[0].Kind)
	assert.Equal(t, models.Internal, clock.Members[0].Accessibility)
	assert.Equal(t, []string{"T"}, clock.Members[1].TypeParameters)
	assert.Equal(t, []string{"T : struct"}, clock.Members[1].Constraints)
	assert.Equal(t, "in", clock.Members[1].Parameters[0].Modifier)
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, m.Targets)
	assert.Empty(t, m.Candidates(""))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("bad.yaml", []byte("targets: [\n"))
	require.Error(t, err)
	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
}

func TestParse_ValidationNamesTarget(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
		message  string
	}{
		{
			name:     "missing interface",
			manifest: "targets:\n  - name: Clock\n",
			field:    "targets[0] (Clock)",
			message:  "interface is required",
		},
		{
			name:     "missing name",
			manifest: "targets:\n  - name: Ok\n    interface: IOk\n  - interface: IBroken\n",
			field:    "targets[1]",
			message:  "name is required",
		},
		{
			name:     "unknown kind",
			manifest: "targets:\n  - name: A\n    interface: IA\n    members:\n      - {kind: event, name: Changed}\n",
			field:    "targets[0] (A)",
			message:  "members[0]: unknown kind 'event'",
		},
		{
			name:     "property without accessors",
			manifest: "targets:\n  - name: A\n    interface: IA\n    members:\n      - {kind: property, name: P, type: int}\n",
			field:    "targets[0] (A)",
			message:  "members[0]: property needs get, set or both",
		},
		{
			name:     "out parameter",
			manifest: "targets:\n  - name: A\n    interface: IA\n    members:\n      - {kind: method, name: M, parameters: [{type: int, name: x, modifier: out}]}\n",
			field:    "targets[0] (A)",
			message:  "members[0].parameters[0]: unsupported modifier 'out'",
		},
		{
			name:     "unknown access",
			manifest: "targets:\n  - name: A\n    interface: IA\n    members:\n      - {kind: method, name: M, access: friend}\n",
			field:    "targets[0] (A)",
			message:  "members[0]: unknown access 'friend'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("targets.yaml", []byte(tt.manifest))
			require.Error(t, err)

			var multi *errors.MultipleErrors
			require.ErrorAs(t, err, &multi)
			require.Equal(t, 1, multi.Count())

			first := multi.Errors[0]
			assert.Equal(t, errors.ValidationErrorCode, first.ErrorCode())
			assert.Equal(t, "targets.yaml", first.Location().File)
			assert.Equal(t, tt.field, first.Context()["field"])
			assert.Contains(t, first.Error(), tt.message)
		})
	}
}

func TestMember_Descriptors(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   []string
	}{
		{"read-write property", Member{Kind: KindProperty, Name: "P", Type: "int", Get: true, Set: true}, []string{"get_P()", "set_P(int)"}},
		{"read-only property", Member{Kind: KindProperty, Name: "P", Type: "int", Get: true}, []string{"get_P()"}},
		{"setter", Member{Kind: KindSetter, Name: "P", Type: "string"}, []string{"set_P(string)"}},
		{"default return", Member{Kind: KindMethod, Name: "Run"}, []string{"Run()"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, d := range tt.member.Descriptors() {
				got = append(got, d.Signature())
				assert.Equal(t, models.Public, d.Accessibility)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Len(t, m.Targets, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}
