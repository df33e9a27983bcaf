package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkboard/internal/stroke"
)

func TestSnapshotWritesPDF(t *testing.T) {
	strokes := []stroke.Stroke{{
		ID: "s",
		Points: []stroke.Point{
			{X: 0, Y: 0, Pressure: 1}, {X: 120, Y: 40, Pressure: 1}, {X: 240, Y: 0, Pressure: 1},
		},
		Color: "#1a1a1a", Width: 2, Opacity: 1, Tool: stroke.ToolPenA, Timestamp: 1,
	}}

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, strokes, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is a PDF document")
	assert.Greater(t, buf.Len(), 1000, "embedded bitmap makes the file non-trivial")
}

func TestSnapshotEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, nil, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
