package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/encoding/protowire"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/graphwire/schema"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

const testSchema = `
messages:
  - name: Pet
    fields:
      - {name: name, number: 1, type: string}
  - name: Person
    fields:
      - {name: name, number: 1, type: string}
      - {name: id, number: 2, type: int32}
      - {name: pets, number: 5, key: string, type: Pet}
      - {name: best, number: 6, type: Pet, options: [ref]}
`

func testStream() []byte {
	pet := protowire.AppendTag(nil, 1, protowire.BytesType)
	pet = protowire.AppendString(pet, "Rex")

	var entry []byte
	entry = protowire.AppendTag(entry, 1, protowire.BytesType)
	entry = protowire.AppendString(entry, "dog")
	entry = protowire.AppendTag(entry, 2, protowire.BytesType)
	entry = protowire.AppendBytes(entry, pet)

	var person []byte
	person = protowire.AppendTag(person, 1, protowire.BytesType)
	person = protowire.AppendString(person, "John")
	person = protowire.AppendTag(person, 2, protowire.VarintType)
	person = protowire.AppendVarint(person, 100)
	person = protowire.AppendTag(person, 5, protowire.BytesType)
	person = protowire.AppendBytes(person, entry)
	person = protowire.AppendTag(person, 6, protowire.Fixed32Type)
	person = protowire.AppendFixed32(person, 2)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, person)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	return protowire.AppendBytes(b, pet)
}

func writeFixtures(t *testing.T) (schemaPath, inPath string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "person.yaml")
	inPath = filepath.Join(dir, "person.bin")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o600))
	require.NoError(t, os.WriteFile(inPath, testStream(), 0o600))
	return schemaPath, inPath
}

func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecode_Tree(t *testing.T) {
	schemaPath, inPath := writeFixtures(t)
	out, err := execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Person\n")
	assert.Contains(t, out, `name: "John"`)
	assert.Contains(t, out, "id: 100")
	assert.Contains(t, out, "dog:\n")
	assert.Contains(t, out, `name: "Rex"`)
	assert.Contains(t, out, "best:\n")
}

func TestDecode_YAMLFromStdin(t *testing.T) {
	schemaPath, _ := writeFixtures(t)
	out, err := execute(t, testStream(), "decode", "-s", schemaPath, "-m", "Person", "--format", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "John", got["name"])
	assert.Equal(t, 100, got["id"])
	assert.Equal(t, map[string]any{"name": "Rex"}, got["best"])
}

func TestDecode_MsgPack(t *testing.T) {
	schemaPath, inPath := writeFixtures(t)
	out, err := execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "-f", "msgpack")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, msgpack.Unmarshal([]byte(out), &got))
	assert.Equal(t, "John", got["name"])
	assert.Equal(t, map[string]any{"dog": map[string]any{"name": "Rex"}}, got["pets"])
}

func TestDecode_Errors(t *testing.T) {
	schemaPath, inPath := writeFixtures(t)

	_, err := execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "--owner=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not completely self-managing")

	_, err = execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "--max-objects", "1")
	assert.ErrorContains(t, err, "limit_exceeded")

	_, err = execute(t, nil, "decode", "-s", schemaPath, "-m", "Nobody", "--in", inPath)
	assert.ErrorContains(t, err, "not_found")

	_, err = execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "-f", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, err = execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, nil, "decode", "-s", schemaPath, "-m", "Person", "--in", inPath, "-i")
	assert.ErrorContains(t, err, "needs a terminal")

	_, err = execute(t, nil, "decode", "-m", "Person", "--in", inPath)
	assert.ErrorContains(t, err, "schema")
}

func TestSchemaCommand(t *testing.T) {
	schemaPath, _ := writeFixtures(t)
	out, err := execute(t, nil, "schema", "-s", schemaPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Person\n")
	assert.Regexp(t, `pets\s+5\s+map\[string\]Pet`, out)
	assert.Regexp(t, `best\s+6,ref\s+\*Pet`, out)
}

func TestRenderTree(t *testing.T) {
	out := renderTree("Root", map[string]any{
		"b":     []any{int64(1), "two"},
		"a":     nil,
		"loop":  schema.Cycle,
		"raw":   []byte{0xab},
		"empty": map[string]any{},
	})
	assert.Equal(t, `Root
  a: null
  b:
    [0]: 1
    [1]: "two"
  empty: {}
  loop: <cycle>
  raw: 0xab
`, out)
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel("Person", map[string]any{"name": "John"})
	assert.Equal(t, "Loading...", m.View())

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = model.(*interactiveModel)
	assert.Contains(t, m.View(), `name: "John"`)
	assert.Contains(t, m.View(), "q quit")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
