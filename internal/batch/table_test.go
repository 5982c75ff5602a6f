package batch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	t.Parallel()

	in := "VIN,URL,PRICE\nV1,https://x.test/a,1000\nV2,https://x.test/b,2000\n"
	table, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"VIN", "URL", "PRICE"}, table.Header)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "https://x.test/b", table.Cell(1, 1))
}

func TestReadTableEmpty(t *testing.T) {
	t.Parallel()

	_, err := ReadTable(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadTableRaggedRows(t *testing.T) {
	t.Parallel()

	table, err := ReadTable(strings.NewReader("A,B\n1\n"))
	require.NoError(t, err)
	require.Equal(t, "1", table.Cell(0, 0))
	require.Equal(t, "", table.Cell(0, 1))
	require.Equal(t, "", table.Cell(5, 0))
}

func TestColumnIndex(t *testing.T) {
	t.Parallel()

	table := &Table{Header: []string{"VIN", "URL"}}

	i, err := table.ColumnIndex("URL")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	_, err = table.ColumnIndex("url")
	require.Error(t, err)
}

func TestWithColumnAndWriteCSV(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"VIN", "URL"},
		Rows:   [][]string{{"V1", "u1"}, {"V2", "u2"}},
	}

	enriched, err := table.WithColumn("CARFAX_URL", []string{"c1", ""})
	require.NoError(t, err)

	// The original table is untouched.
	require.Len(t, table.Header, 2)
	require.Len(t, table.Rows[0], 2)

	var buf bytes.Buffer
	require.NoError(t, enriched.WriteCSV(&buf))
	require.Equal(t, "VIN,URL,CARFAX_URL\nV1,u1,c1\nV2,u2,\n", buf.String())

	_, err = table.WithColumn("X", []string{"only-one"})
	require.Error(t, err)
}
