package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/source"
)

func cleanedTable(t *testing.T) *core.Table {
	t.Helper()
	tbl, err := core.NewTable([]string{"id", "label"}, [][]core.Cell{
		{core.Number(1), core.Text("x")},
		{core.Number(2.5), core.Text("a,b")},
		{core.Number(3), core.Missing()},
	})
	require.NoError(t, err)
	return tbl
}

func TestCSVSink_Save(t *testing.T) {
	tests := []struct {
		name string
		opts CSVOptions
		want string
	}{
		{
			name: "defaults",
			want: "id,label\n1.0,x\n2.5,\"a,b\"\n3.0,\n",
		},
		{
			name: "semicolon delimiter",
			opts: CSVOptions{Delimiter: ';'},
			want: "id;label\n1.0;x\n2.5;a,b\n3.0;\n",
		},
		{
			name: "with bom",
			opts: CSVOptions{BOM: true},
			want: "\xEF\xBB\xBFid,label\n1.0,x\n2.5,\"a,b\"\n3.0,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nested", "out.csv")

			err := NewCSVSink(tt.opts).Save(context.Background(), cleanedTable(t), dest)
			require.NoError(t, err)

			got, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCSVSink_SingleColumnMissingSurvivesRoundTrip(t *testing.T) {
	tbl, err := core.NewTable([]string{"v"}, [][]core.Cell{
		{core.Number(2)},
		{core.Missing()},
		{core.Number(6)},
	})
	require.NoError(t, err)
	dest := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewCSVSink(CSVOptions{}).Save(context.Background(), tbl, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "v\n2.0\n\"\"\n6.0\n", string(got))

	back, err := source.NewCSVSource(source.Options{}).Load(context.Background(), dest)
	require.NoError(t, err)
	require.Equal(t, 3, back.NumRows())
	col, _ := back.Column("v")
	assert.True(t, col.Cells[1].IsMissing())
}

func TestCSVSink_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(dest, []byte("stale contents that are longer than the new file\n"), 0644))

	tbl, err := core.NewTable([]string{"a"}, [][]core.Cell{{core.Text("b")}})
	require.NoError(t, err)
	require.NoError(t, NewCSVSink(CSVOptions{}).Save(context.Background(), tbl, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestCSVSink_FailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	dest := filepath.Join(blocker, "out.csv") // parent is a regular file

	err := NewCSVSink(CSVOptions{}).Save(context.Background(), cleanedTable(t), dest)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSinkWrite))
	assert.Equal(t, core.StageSave, core.StageOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCSVSink_DestinationIsDirectory(t *testing.T) {
	dest := t.TempDir()

	err := NewCSVSink(CSVOptions{}).Save(context.Background(), cleanedTable(t), dest)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSinkWrite)

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
