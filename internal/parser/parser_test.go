package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

const exampleServiceSource = `using DudNet.Attributes;
using System;

namespace TestProject;

public interface IExampleService
{
    public void ExampleFunction();

    public int ExampleFunctionWithArgumentAndReturn(int number);
}

[ProxyService]
public partial class ExampleService : IExampleService
{
    public void ExampleFunction()
    {
        Console.WriteLine("{ not a brace }");
    }

    public int ExampleFunctionWithArgumentAndReturn(int number) => number * 2;
}
`

const personSource = `// people
using System.Collections.Generic;

namespace People
{
    /* block comment { */
    public interface IPerson
    {
        string FirstName { get; set; }
        string LastName { get; }
        int Age { set; }
        internal Guid Id { get; protected set; }
    }

    [DudNet.Attributes.ProxyServiceAttribute]
    public sealed class Person : IPerson, IDisposable
    {
        public string FirstName { get; set; } = "";
    }
}
`

func TestParser_ParseSource_ExampleService(t *testing.T) {
	file, err := NewParser().ParseSource("ExampleService.cs", exampleServiceSource)
	require.NoError(t, err)

	assert.Equal(t, "TestProject", file.Namespace)
	assert.Equal(t, []string{"DudNet.Attributes", "System"}, file.Usings)

	require.Len(t, file.Interfaces, 1)
	iface := file.Interfaces[0]
	assert.Equal(t, "IExampleService", iface.Name)
	assert.Equal(t, "TestProject", iface.Namespace)
	assert.Empty(t, iface.Skipped)
	require.Len(t, iface.Members, 2)

	first := iface.Members[0]
	assert.Equal(t, models.MethodMember, first.Kind)
	assert.Equal(t, "ExampleFunction", first.Name)
	assert.True(t, first.ReturnsVoid)
	assert.Equal(t, models.Public, first.Accessibility)
	assert.Empty(t, first.Parameters)

	second := iface.Members[1]
	assert.Equal(t, "int", second.ReturnType)
	assert.False(t, second.ReturnsVoid)
	assert.Equal(t, []models.Parameter{{Type: "int", Name: "number"}}, second.Parameters)

	require.Len(t, file.Classes, 1)
	class := file.Classes[0]
	assert.Equal(t, "ExampleService", class.Name)
	assert.Equal(t, "class", class.Kind)
	assert.Equal(t, "TestProject", class.Namespace)
	assert.Equal(t, []string{"ProxyService"}, class.Attributes)
	assert.Equal(t, []string{"IExampleService"}, class.Bases)
	assert.Equal(t, []string{"DudNet.Attributes", "System"}, class.Usings)
	assert.Equal(t, 14, class.Location.Line)
}

func TestParser_ParseSource_Properties(t *testing.T) {
	file, err := NewParser().ParseSource("Person.cs", personSource)
	require.NoError(t, err)

	assert.Equal(t, "People", file.Namespace)
	require.Len(t, file.Interfaces, 1)

	members := file.Interfaces[0].Members
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"get_FirstName", "set_FirstName",
		"get_LastName",
		"set_Age",
		"get_Id", "set_Id",
	}, names)

	assert.Equal(t, "string", members[0].ValueType())
	assert.Equal(t, "int", members[3].ValueType())
	assert.Equal(t, models.Internal, members[4].Accessibility)
	assert.Equal(t, models.Protected, members[5].Accessibility)

	require.Len(t, file.Classes, 1)
	assert.Equal(t, []string{"DudNet.Attributes.ProxyServiceAttribute"}, file.Classes[0].Attributes)
	assert.Equal(t, []string{"IPerson", "IDisposable"}, file.Classes[0].Bases)
}

func TestParser_ParseSource_MethodShapes(t *testing.T) {
	source := `namespace Shapes {
    public interface IRepository
    {
        Task<IList<T>> FindAll<T, TKey>(Expression<Func<T, bool>> filter, int limit = 10) where T : class, new() where TKey : struct;
        void Update(ref Entity entity, in Options options, params string[] tags);
        (int Count, string Name) Describe(int? hint = default);
        global::System.String Qualified(Dictionary<string, List<int>>[] map);
        static abstract IRepository Create();
    }
}`
	file, err := NewParser().ParseSource("Repo.cs", source)
	require.NoError(t, err)
	require.Len(t, file.Interfaces, 1)

	members := file.Interfaces[0].Members
	require.Len(t, members, 5)

	findAll := members[0]
	assert.Equal(t, "FindAll", findAll.Name)
	assert.Equal(t, "Task<IList<T>>", findAll.ReturnType)
	assert.Equal(t, []string{"T", "TKey"}, findAll.TypeParameters)
	assert.Equal(t, []string{"T : class, new()", "TKey : struct"}, findAll.Constraints)
	assert.Equal(t, []models.Parameter{
		{Type: "Expression<Func<T, bool>>", Name: "filter"},
		{Type: "int", Name: "limit"},
	}, findAll.Parameters)

	assert.Equal(t, []models.Parameter{
		{Type: "Entity", Name: "entity", Modifier: "ref"},
		{Type: "Options", Name: "options", Modifier: "in"},
		{Type: "string[]", Name: "tags", Modifier: "params"},
	}, members[1].Parameters)

	assert.Equal(t, "(int Count, string Name)", members[2].ReturnType)
	assert.Equal(t, "int?", members[2].Parameters[0].Type)

	assert.Equal(t, "global::System.String", members[3].ReturnType)
	assert.Equal(t, "Dictionary<string, List<int>>[]", members[3].Parameters[0].Type)

	assert.True(t, members[4].IsStatic)
}

func TestParser_ParseSource_SkippedMembers(t *testing.T) {
	tests := []struct {
		name   string
		member string
		reason string
		fatal  bool
	}{
		{name: "event", member: "event EventHandler Changed;", reason: ReasonEvent},
		{name: "default method body", member: "void Log() { Console.WriteLine(); }", reason: ReasonDefaultBody},
		{name: "expression body", member: "int Twice(int x) => x * 2;", reason: ReasonDefaultBody},
		{name: "default property", member: "string Label => \"x\";", reason: ReasonDefaultBody},
		{name: "accessor body", member: "string Label { get { return \"x\"; } }", reason: ReasonDefaultBody},
		{name: "const field", member: "const int Max = 3;", reason: ReasonField},
		{name: "out parameter", member: "bool TryGet(string key, out int value);", reason: ReasonOutParameter, fatal: true},
		{name: "init accessor", member: "string Name { get; init; }", reason: ReasonInitAccessor, fatal: true},
		{name: "indexer", member: "string this[int index] { get; }", reason: ReasonIndexer, fatal: true},
		{name: "operator", member: "static abstract IThing operator +(IThing a, IThing b);", reason: ReasonOperator, fatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := "interface IThing {\n    " + tt.member + "\n    void Kept();\n}\n"
			file, err := NewParser().ParseSource("Thing.cs", source)
			require.NoError(t, err)
			require.Len(t, file.Interfaces, 1)

			iface := file.Interfaces[0]
			require.Len(t, iface.Skipped, 1)
			assert.Equal(t, tt.reason, iface.Skipped[0].Reason)
			assert.Equal(t, tt.fatal, iface.Skipped[0].Fatal)
			assert.Equal(t, 2, iface.Skipped[0].Location.Line)

			require.Len(t, iface.Members, 1)
			assert.Equal(t, "Kept", iface.Members[0].Name)
		})
	}
}

func TestParser_ParseSource_Namespaces(t *testing.T) {
	source := `global using System;
using static System.Math;
using Models = Company.Models;

namespace Outer
{
    namespace Inner
    {
        public interface IInner { }

        [ProxyService]
        internal class InnerService : IInner { }
    }

    public interface IOuter
    {
        interface INested { }
    }
}

namespace Second.Level
{
    public record Entry(string Key) : IOuter;
    public enum Kind { A, B = 2 }
    public delegate void Handler(object sender);
}
`
	file, err := NewParser().ParseSource("Namespaces.cs", source)
	require.NoError(t, err)

	assert.Equal(t, "Outer", file.Namespace)
	assert.Equal(t, []string{"System", "static System.Math", "Models = Company.Models"}, file.Usings)

	qualified := make([]string, 0, len(file.Interfaces))
	for _, iface := range file.Interfaces {
		qualified = append(qualified, iface.QualifiedName())
	}
	assert.ElementsMatch(t, []string{"Outer.Inner.IInner", "Outer.IOuter.INested", "Outer.IOuter"}, qualified)

	require.Len(t, file.Classes, 2)
	assert.Equal(t, "Outer.Inner", file.Classes[0].Namespace)
	assert.Equal(t, "record", file.Classes[1].Kind)
	assert.Equal(t, "Second.Level", file.Classes[1].Namespace)
	assert.Equal(t, []string{"IOuter"}, file.Classes[1].Bases)
}

func TestParser_ParseSource_ByteOrderMark(t *testing.T) {
	file, err := NewParser().ParseSource("Bom.cs", "\uFEFFinterface IEmpty { }")
	require.NoError(t, err)
	require.Len(t, file.Interfaces, 1)
	assert.Empty(t, file.Interfaces[0].Members)
}

func TestParser_ParseSource_SyntaxError(t *testing.T) {
	_, err := NewParser().ParseSource("Broken.cs", "namespace Broken {\n    interface IBroken {\n        void Missing(\n}\n")
	require.Error(t, err)

	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))

	var base *errors.BaseError
	require.ErrorAs(t, err, &base)
	assert.Equal(t, "Broken.cs", base.Location().File)
	assert.Greater(t, base.Location().Line, 0)
	assert.NotEmpty(t, base.Suggestions())
}

func TestParser_ParseFile_Cache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ExampleService.cs")
	require.NoError(t, os.WriteFile(path, []byte(exampleServiceSource), 0o644))

	p := NewParser()
	first, err := p.ParseFile(path)
	require.NoError(t, err)
	second, err := p.ParseFile(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	stats := p.CacheStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 1, stats.Hits)

	p.Invalidate(path)
	third, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestParser_ParseFile_Missing(t *testing.T) {
	_, err := NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.cs"))
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}

func TestParser_ParseFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Good.cs")
	bad := filepath.Join(dir, "Bad.cs")
	person := filepath.Join(dir, "Person.cs")
	require.NoError(t, os.WriteFile(good, []byte(exampleServiceSource), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("interface {"), 0o644))
	require.NoError(t, os.WriteFile(person, []byte(personSource), 0o644))

	files, err := NewParser().ParseFiles(context.Background(), []string{good, bad, person}, 2)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 1, multi.Count())

	require.Len(t, files, 2)
	assert.Equal(t, good, files[0].Path)
	assert.Equal(t, person, files[1].Path)
}

func TestParser_ParseFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseFiles(ctx, []string{"a.cs", "b.cs"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
