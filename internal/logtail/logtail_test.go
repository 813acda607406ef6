package logtail

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestRing(t *testing.T) {
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"clamped to one (0)", 0, expectedAll[9:]},
		{"clamped to one (negative)", -1, expectedAll[9:]},
		{"keep partial (5)", 5, expectedAll[5:]},
		{"keep exactly all (10)", 10, expectedAll},
		{"more than written (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(tt.maxLines)
			if _, err := r.Write([]byte(content.String())); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if got := r.Lines(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lines() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRing_SplitWritesAndPartialLines(t *testing.T) {
	r := NewRing(3)
	for _, chunk := range []string{"[video4linux2] Cannot op", "en video device\r\n", "Permission den"} {
		if _, err := r.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write(%q) error = %v", chunk, err)
		}
	}

	want := []string{"[video4linux2] Cannot open video device", "Permission den"}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
	if got := r.Last(); got != "Permission den" {
		t.Fatalf("Last() = %q, want %q", got, "Permission den")
	}
}

func TestRing_LastSkipsBlankLines(t *testing.T) {
	r := NewRing(4)
	if got := r.Last(); got != "" {
		t.Fatalf("Last() on empty ring = %q, want empty", got)
	}
	_, _ = r.Write([]byte("device busy\n\n   \n"))
	if got := r.Last(); got != "device busy" {
		t.Fatalf("Last() = %q, want %q", got, "device busy")
	}
}
