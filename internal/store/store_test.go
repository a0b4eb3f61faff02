package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/schema"
)

func editedKB(t *testing.T) schema.KnowledgeBase {
	t.Helper()
	out, _, err := kb.AddDisease(kb.Default(), kb.DiseaseInput{
		ID: "d13", Name: "Septoria Leaf Spot", PlantCategory: schema.PlantTomato, Treatment: "Remove infected leaves.",
	})
	require.NoError(t, err)
	out, _, err = kb.AddRule(out, "d13", kb.RuleInput{ID: "r37", Conditions: []string{"s1", "s10"}, Weight: 4})
	require.NoError(t, err)
	out, err = kb.DeleteRule(out, "d1", "r2")
	require.NoError(t, err)
	return out
}

func assertSameKB(t *testing.T, want, got schema.KnowledgeBase) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("knowledge base mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_MissingFileLoadsDefault(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs(), "/data/kb.yaml", nil)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assertSameKB(t, kb.Default(), got)
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, path := range []string{"/data/kb.yaml", "/data/kb.yml", "/data/nested/kb.json"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s := NewFileStore(fs, path, nil)
			want := editedKB(t)

			require.NoError(t, s.Save(context.Background(), want))
			got, err := s.Load(context.Background())
			require.NoError(t, err)
			assertSameKB(t, want, got)

			exists, err := afero.Exists(fs, path+".tmp")
			require.NoError(t, err)
			assert.False(t, exists, "temporary file left behind")
		})
	}
}

func TestFileStore_YAMLFieldNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, NewFileStore(fs, "/kb.yaml", nil).Save(context.Background(), kb.Default()))
	data, err := afero.ReadFile(fs, "/kb.yaml")
	require.NoError(t, err)
	for _, key := range []string{"applicable_plants:", "plant_category:", "conditions:", "weight: 9"} {
		assert.Contains(t, string(data), key)
	}
}

func TestFileStore_Reset(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/kb.json", nil)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, editedKB(t)))
	require.NoError(t, s.Reset(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, kb.Default(), got)
	require.NoError(t, s.Reset(ctx), "reset of a missing file succeeds")
}

func TestFileStore_RejectsInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/kb.yaml", nil)
	bad := kb.Default()
	bad.Diseases[0].Rules[0].Weight = 42

	err := s.Save(context.Background(), bad)
	require.Error(t, err)
	var verrs schema.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "KnowledgeBase.Diseases[0].Rules[0].Weight", verrs[0].Field)

	exists, _ := afero.Exists(fs, "/kb.yaml")
	assert.False(t, exists)
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := ReadFile(fs, "/missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, afero.WriteFile(fs, "/blank.yaml", []byte("  \n"), 0o644))
	_, err = ReadFile(fs, "/blank.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, afero.WriteFile(fs, "/unknown.yaml", []byte("symptoms: []\nextra: 1\n"), 0o644))
	_, err = ReadFile(fs, "/unknown.yaml")
	assert.Error(t, err, "unknown fields are rejected")

	dup := `
symptoms:
  - {id: s1, name: A, category: leaf, applicable_plants: [tomato]}
  - {id: s1, name: B, category: leaf, applicable_plants: [tomato]}
diseases: []
`
	require.NoError(t, afero.WriteFile(fs, "/dup.yaml", []byte(dup), 0o644))
	_, err = ReadFile(fs, "/dup.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate symptom id "s1"`)

	ok := `{"symptoms": [{"id": "s1", "name": "A", "category": "leaf", "applicable_plants": ["chilli"]}], "diseases": []}`
	require.NoError(t, afero.WriteFile(fs, "/ok.json", []byte(ok), 0o644))
	got, err := ReadFile(fs, "/ok.json")
	require.NoError(t, err)
	require.Len(t, got.Symptoms, 1)
	assert.True(t, got.Symptoms[0].AppliesTo(schema.PlantChilli))
}

func TestFormatOf(t *testing.T) {
	cases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"kb.json", FormatJSON, true},
		{"KB.JSON", FormatJSON, true},
		{"kb.yaml", FormatYAML, true},
		{"dir/kb.yml", FormatYAML, true},
		{"kb.toml", "", false},
		{"kb", "", false},
	}
	for _, c := range cases {
		got, err := FormatOf(c.path)
		if c.ok {
			assert.NoError(t, err, c.path)
			assert.Equal(t, c.want, got, c.path)
		} else {
			assert.Error(t, err, c.path)
		}
	}
}

func tempSQL(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(filepath.Join(t.TempDir(), "kb.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_FreshLoadsDefault(t *testing.T) {
	s := tempSQL(t)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assertSameKB(t, kb.Default(), got)
}

func TestSQLStore_RoundTripKeepsOrder(t *testing.T) {
	s := tempSQL(t)
	ctx := context.Background()
	want := editedKB(t)

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, want, got)

	// A second save replaces rather than merges.
	smaller, err := kb.DeleteDisease(want, "d13")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, smaller))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, smaller, got)
}

func TestSQLStore_EmptyKnowledgeBaseIsNotDefault(t *testing.T) {
	s := tempSQL(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, schema.KnowledgeBase{}))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Symptoms)
	assert.Empty(t, got.Diseases)
}

func TestSQLStore_Reset(t *testing.T) {
	s := tempSQL(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, editedKB(t)))
	require.NoError(t, s.Reset(ctx))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, kb.Default(), got)
}

func TestSQLStore_RejectsInvalid(t *testing.T) {
	s := tempSQL(t)
	ctx := context.Background()
	bad := kb.Default()
	bad.Diseases[1].ID = "d1"
	require.Error(t, s.Save(ctx, bad))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, kb.Default(), got)
}

func TestSQLStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")
	ctx := context.Background()
	want := editedKB(t)

	s, err := NewSQLStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Close())

	s, err = NewSQLStore(path, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameKB(t, want, got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(Options{})
	require.NoError(t, err)
	assert.Equal(t, "builtin:default", s.Describe())
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Diseases, 12)
	assert.ErrorIs(t, s.Save(ctx, got), ErrReadOnly)
	assert.ErrorIs(t, s.Reset(ctx), ErrReadOnly)

	_, err = Open(Options{Driver: DriverBuiltin, Path: "nope"})
	assert.Error(t, err)

	fs := afero.NewMemMapFs()
	s, err = Open(Options{Driver: DriverFile, Path: "/kb.yaml", Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, "file:/kb.yaml", s.Describe())
	_, isFile := s.(*FileStore)
	assert.True(t, isFile)

	_, err = Open(Options{Driver: DriverFile})
	assert.Error(t, err)
	_, err = Open(Options{Driver: DriverFile, Path: "/kb.txt"})
	assert.Error(t, err)

	dbPath := filepath.Join(t.TempDir(), "kb.db")
	s, err = Open(Options{Driver: DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.Describe(), "sqlite:"))
	require.NoError(t, s.Close())

	_, err = Open(Options{Driver: DriverSQLite})
	assert.Error(t, err)
	_, err = Open(Options{Driver: "postgres"})
	assert.Error(t, err)
}
