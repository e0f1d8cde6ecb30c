package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Contains(t, FormatSuccess("synced"), "synced")
	assert.Contains(t, FormatSuccess("synced"), SuccessIcon)
	assert.Contains(t, FormatError("failed"), ErrorIcon)
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Workshops"), "Workshops")
	assert.Contains(t, RenderBox("Finance", "Revenue"), "Revenue")

	for _, health := range []string{"green", "yellow", "red", "unknown"} {
		assert.Contains(t, FormatHealth(health, "42.0%"), "42.0%")
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Row", "Name"}, [][]string{{"2", "Asha"}, {"3", "Ravi"}})

	assert.Contains(t, out, "Row")
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "Ravi")
	assert.Less(t, strings.Index(out, "Asha"), strings.Index(out, "Ravi"))
}

func TestOrDash(t *testing.T) {
	empty := ""
	name := "Asha"
	assert.Equal(t, "-", OrDash(nil))
	assert.Equal(t, "-", OrDash(&empty))
	assert.Equal(t, "Asha", OrDash(&name))
}

func TestSyncProgress(t *testing.T) {
	var out bytes.Buffer
	progress := NewSyncProgress(&out)
	progress.Label("W1", "Clay basics")

	progress.Row("W1", 1, 2)
	progress.Row("W1", 2, 2)

	assert.Contains(t, out.String(), "Syncing Clay basics")
	assert.Len(t, progress.bars, 1)
}
