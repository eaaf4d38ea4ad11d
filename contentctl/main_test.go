package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const facultyJSON = `[
  {"id": "john-doe", "name": "Dr. John Doe", "title": "Professor", "department": "Computer Science",
   "email": "john.doe@university.edu", "bio": "Expert in machine learning and artificial intelligence",
   "researchAreas": ["Machine Learning", "AI", "Data Science"]}
]`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	t.Run("clean directory", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "faculty/sample.json", facultyJSON)

		out, err := execute(t, "", "validate", "--dir", root)
		require.NoError(t, err)
		require.Contains(t, out, "ok   faculty/sample.json (1 records)")
		require.Contains(t, out, "1 files checked, no problems")
	})

	t.Run("positional dir wins", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "events/sample.json", `{}`)

		out, err := execute(t, "", "validate", "--dir", t.TempDir(), root)
		require.ErrorContains(t, err, "1 problem(s) found")
		require.Contains(t, out, "FAIL events/sample.json: expected a JSON array of records")
	})

	t.Run("json report", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "faculty/sample.json", `[{"id": "x"}, {"id": "x"}]`)

		out, err := execute(t, "", "validate", "--json", "--dir", root)
		require.Error(t, err)

		var report struct {
			Files      []map[string]any    `json:"files"`
			Duplicates map[string][]string `json:"duplicates"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Files, 1)
		require.Equal(t, []string{"x"}, report.Duplicates["faculty"])
	})
}

func TestSearchCmd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "faculty/sample.json", facultyJSON)

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "", "search", "machine learning", "--dir", root)
		require.NoError(t, err)
		require.Contains(t, out, `result(s) for "machine learning"`)
		require.Contains(t, out, "Dr. John Doe")
		require.Contains(t, out, "<mark>")
	})

	t.Run("json with type filter", func(t *testing.T) {
		out, err := execute(t, "", "search", "learning", "--types", "news", "--json", "--dir", root)
		require.NoError(t, err)

		var resp struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Zero(t, resp.Total)
	})

	t.Run("no results", func(t *testing.T) {
		out, err := execute(t, "", "search", "zzzz", "--dir", root)
		require.NoError(t, err)
		require.Contains(t, out, "No results found.")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := execute(t, "", "search", "<>", "--dir", root)
		require.ErrorContains(t, err, "query is empty")

		_, err = execute(t, "", "search", "ai", "--types", "blog", "--dir", root)
		require.ErrorContains(t, err, `unknown content type "blog"`)

		_, err = execute(t, "", "search", "--dir", root)
		require.ErrorContains(t, err, "accepts 1 arg(s)")
	})
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(t, "", "schema", "events", "--dir", t.TempDir())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "array", doc["type"])

	_, err = execute(t, "", "schema", "blog", "--dir", t.TempDir())
	require.ErrorContains(t, err, `unknown kind "blog"`)
}

func TestRepairCmd(t *testing.T) {
	t.Run("object from stdin", func(t *testing.T) {
		out, err := execute(t, `{"title": "Colloquium", "type": "party"}`, "repair", "events", "-", "--dir", t.TempDir())
		require.NoError(t, err)

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		require.Equal(t, "seminar", rec["type"])
		require.NotEmpty(t, rec["id"])
		require.NotEmpty(t, rec["date"])
	})

	t.Run("array from file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "drafts.json", `[{"title": "Grant Awarded", "content": "We won. More soon."}, {"id": "keep"}]`)

		out, err := execute(t, "", "repair", "news", filepath.Join(root, "drafts.json"), "--dir", root)
		require.NoError(t, err)

		var recs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &recs))
		require.Len(t, recs, 2)
		require.Equal(t, "grant-awarded", recs[0]["slug"])
		require.Equal(t, "keep", recs[1]["id"])
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := execute(t, `[1]`, "repair", "news", "-", "--dir", t.TempDir())
		require.ErrorContains(t, err, "[0]: expected a JSON object")

		_, err = execute(t, `{`, "repair", "news", "-", "--dir", t.TempDir())
		require.ErrorContains(t, err, "decode input")

		_, err = execute(t, `{}`, "repair", "blog", "-", "--dir", t.TempDir())
		require.ErrorContains(t, err, `unknown kind "blog"`)
	})
}
