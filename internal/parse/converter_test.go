package parse_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-project/custodia/internal/parse"
	"github.com/custodia-project/custodia/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTextConverter_HeadingsSetSectionLocation(t *testing.T) {
	doc := "# Findings\n\nEnrollment grew.\n\n## Detail\n\nSee table.\n"
	path := writeFile(t, t.TempDir(), "doc.md", doc)

	conv, err := parse.NewTextConverter().Convert(path)
	require.NoError(t, err)
	require.Len(t, conv.Elements, 4)

	assert.Equal(t, "heading", conv.Elements[0].Type)
	assert.Equal(t, "heading/1/Findings", conv.Elements[0].Location)
	assert.Equal(t, "Findings", conv.Elements[0].Content)

	assert.Equal(t, "paragraph", conv.Elements[1].Type)
	assert.Equal(t, "heading/1/Findings", conv.Elements[1].Location)
	assert.Equal(t, "Enrollment grew.", conv.Elements[1].Content)

	assert.Equal(t, "heading/2/Detail", conv.Elements[2].Location)
	assert.Equal(t, "heading/2/Detail", conv.Elements[3].Location)
}

func TestTextConverter_ContentBeforeAnyHeadingIsUnknownStructure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.txt", "Preface text.\n\n# Later\n\nBody.\n")

	conv, err := parse.NewTextConverter().Convert(path)
	require.NoError(t, err)
	require.Len(t, conv.Elements, 3)
	assert.Equal(t, model.UnknownStructure, conv.Elements[0].Location)
}

func TestTextConverter_EmptyDocumentYieldsOneElement(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "")

	conv, err := parse.NewTextConverter().Convert(path)
	require.NoError(t, err)
	require.Len(t, conv.Elements, 1)
	assert.Equal(t, model.UnknownStructure, conv.Elements[0].Location)
	assert.Empty(t, conv.Elements[0].Content)
}

func TestTextConverter_PlainTextCarriesWholeDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.txt", "line one\n\nline two\n")

	conv, err := parse.NewTextConverter().Convert(path)
	require.NoError(t, err)
	assert.Contains(t, conv.PlainText, "line one")
	assert.Contains(t, conv.PlainText, "line two")
}

func TestTextConverter_IllFormedBytesAreSanitized(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.txt", "ok \xff\xfe bytes")

	conv, err := parse.NewTextConverter().Convert(path)
	require.NoError(t, err)
	assert.Contains(t, conv.PlainText, "ok ")
	assert.NotContains(t, conv.PlainText, "\xff")
}

func TestValidateSchema(t *testing.T) {
	valid := func() *model.ParsedDocument {
		return &model.ParsedDocument{
			SchemaVersion: model.SchemaVersion,
			Provenance: model.Provenance{
				Filename:          "doc.txt",
				SHA256:            model.HashValue("a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"),
				IngestedAt:        now(),
				GitCommit:         "NO_GIT_COMMIT",
				SourcePath:        "/tmp/doc.txt",
				ParsedAt:          now(),
				Verified:          true,
				ManifestSignature: model.SignatureUnsigned,
			},
			Elements: []model.Element{{Type: "paragraph", Location: model.UnknownStructure, Content: "x"}},
		}
	}

	assert.NoError(t, parse.ValidateSchema(valid()))

	noElements := valid()
	noElements.Elements = nil
	assert.Error(t, parse.ValidateSchema(noElements))

	emptyLocation := valid()
	emptyLocation.Elements[0].Location = ""
	err := parse.ValidateSchema(emptyLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 0")

	badHash := valid()
	badHash.Provenance.SHA256 = "XYZ"
	assert.Error(t, parse.ValidateSchema(badHash))

	badState := valid()
	badState.Provenance.ManifestSignature = "MAYBE"
	assert.Error(t, parse.ValidateSchema(badState))
}
