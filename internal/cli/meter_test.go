package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestMeterDrawsProgress(t *testing.T) {
	var buf bytes.Buffer
	m := newMeter(&buf, 60)

	m.update(30)
	out := buf.String()
	if !strings.Contains(out, "30/60") {
		t.Errorf("meter output missing count: %q", out)
	}
	if !strings.Contains(out, "█") || !strings.Contains(out, "░") {
		t.Errorf("meter output missing bar glyphs: %q", out)
	}

	m.update(90)
	if !strings.Contains(buf.String(), "60/60") {
		t.Errorf("meter should clamp to total: %q", buf.String())
	}

	m.finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("finish should terminate the line")
	}
}

func TestMeterZeroTotalIsSilent(t *testing.T) {
	var buf bytes.Buffer
	m := newMeter(&buf, 0)
	m.update(10)
	m.finish()
	if buf.Len() != 0 {
		t.Errorf("meter with zero total wrote %q", buf.String())
	}
}
