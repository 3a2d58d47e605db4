package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	p := NewProgress(10, false)

	p.Update(5, 10, 0)

	assert.Equal(t, 5, p.completed)
	assert.Equal(t, 10, p.total)
}

func TestProgress_Print(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(8, true)
	p.output = &buf
	p.Track(Result{Task: Task{Material: "wood_grain"}})

	p.Update(4, 8, 1)

	output := buf.String()
	assert.Contains(t, output, "[############............]")
	assert.Contains(t, output, "4/8 materials")
	assert.Contains(t, output, "(1 failed)")
	assert.Contains(t, output, "wood_grain")
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(3, true)
	p.output = &buf
	p.Update(3, 3, 0)
	buf.Reset()

	p.Done()

	output := buf.String()
	assert.Contains(t, output, "done in")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgress_Disabled(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(3, false)
	p.output = &buf
	p.Update(1, 3, 0)
	p.Done()

	assert.Empty(t, buf.String())
}

func TestProgress_Summary(t *testing.T) {
	p := NewProgress(8, false)
	p.startTime = time.Now().Add(-2 * time.Second)
	p.Update(8, 8, 2)

	summary := p.Summary()
	assert.Contains(t, summary, "Generated 6/8 materials (2 failed)")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
