package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"RAHUL KUMAR", "2"}, {"PRIYA"}},
		[]columnAlignment{alignLeft, alignRight},
	)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "RAHUL KUMAR")
	assert.Contains(t, out, "PRIYA")
	assert.True(t, strings.HasPrefix(out, "╭"))
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"x"}}, nil))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "PAN", orDash("PAN"))
}
