package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	recs := Derive(sampleTable())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, recs))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(recs)+1)
	assert.Equal(t, ColCallTime, rows[0][0])
	assert.Equal(t, ColCategory, rows[0][12])
	assert.Equal(t, "Appointment Booking", rows[1][12])
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	recs := Derive(sampleTable())

	path := filepath.Join(t.TempDir(), "export.xlsx")
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, recs))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tbl, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	back := Derive(tbl)
	require.Len(t, back, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].Category, back[i].Category)
		assert.Equal(t, recs[i].Date, back[i].Date)
		assert.Equal(t, recs[i].ConversationDuration, back[i].ConversationDuration)
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))
	assert.NotZero(t, buf.Len())
}
