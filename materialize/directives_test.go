package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		line  string
		want  Directive
		valid bool
	}{
		{"BR2_PACKAGE_HTOP=y", Directive{"BR2_PACKAGE_HTOP", "y"}, true},
		{`BR2_ROOTFS_OVERLAY="board/raspberrypi/overlay"`, Directive{"BR2_ROOTFS_OVERLAY", `"board/raspberrypi/overlay"`}, true},
		{"  BR2_X=  ", Directive{"BR2_X", ""}, true},
		{"BR2_X=a=b", Directive{"BR2_X", "a=b"}, true},
		{"=y", Directive{}, false},
		{"1BR2=y", Directive{}, false},
		{"BR2 X=y", Directive{}, false},
		{"BR2_PACKAGE_HTOP", Directive{}, false},
		{"BR2_X=y\nBR2_PACKAGE_HTOP=n", Directive{}, false},
		{"BR2_X=y\rBR2_PACKAGE_HTOP=n", Directive{}, false},
		{"BR2_X=\"a\r\n\"", Directive{}, false},
	}

	for _, tt := range tests {
		got, err := ParseDirective(tt.line)
		if tt.valid {
			assert.NoError(t, err, tt.line)
			assert.Equal(t, tt.want, got, tt.line)
		} else {
			assert.Error(t, err, tt.line)
		}
	}
}

func TestParseDirectivesSkipsCommentsAndBlanks(t *testing.T) {
	got, err := ParseDirectives("# robotics\n\nBR2_PACKAGE_NANO=y\n  BR2_PACKAGE_FILE=y\n")

	assert.NoError(t, err)
	assert.Equal(t, []Directive{{"BR2_PACKAGE_NANO", "y"}, {"BR2_PACKAGE_FILE", "y"}}, got)
}

func TestRenderDirectives(t *testing.T) {
	assert.Equal(t, "", RenderDirectives(nil))
	assert.Equal(t, "A=1\nB=2\n", RenderDirectives([]Directive{{"A", "1"}, {"B", "2"}}))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Directive{{"A", "1"}, {"B", "2"}, {"A", "3"}})

	assert.Equal(t, []Directive{{"A", "3"}, {"B", "2"}}, got)
}

func TestMergeDirectives(t *testing.T) {
	t.Run("replaces an existing assignment in place", func(t *testing.T) {
		got := mergeDirectives([]byte("A=1\nBR2_HOSTNAME=\"buildroot\"\nC=3\n"), []Directive{{"BR2_HOSTNAME", `"pioneer"`}})

		assert.Equal(t, "A=1\nBR2_HOSTNAME=\"pioneer\"\nC=3\n", string(got))
	})

	t.Run("turns an unset marker into an assignment", func(t *testing.T) {
		got := mergeDirectives([]byte("# BR2_PACKAGE_HTOP is not set\nX=y\n"), []Directive{{"BR2_PACKAGE_HTOP", "y"}})

		assert.Equal(t, "BR2_PACKAGE_HTOP=y\nX=y\n", string(got))
	})

	t.Run("appends missing keys in order", func(t *testing.T) {
		got := mergeDirectives([]byte("X=y\n"), []Directive{{"B", "2"}, {"A", "1"}})

		assert.Equal(t, "X=y\nB=2\nA=1\n", string(got))
	})

	t.Run("adds a newline before appending to an unterminated file", func(t *testing.T) {
		got := mergeDirectives([]byte("X=y"), []Directive{{"A", "1"}})

		assert.Equal(t, "X=y\nA=1\n", string(got))
	})

	t.Run("drops duplicates left by earlier appends", func(t *testing.T) {
		got := mergeDirectives([]byte("A=1\nX=y\nA=1\n"), []Directive{{"A", "2"}})

		assert.Equal(t, "A=2\nX=y\n", string(got))
	})

	t.Run("keeps unrelated bytes including comments and CRLF", func(t *testing.T) {
		content := "#\n# Buildroot configuration\n#\nX=y\r\n\n"

		got := mergeDirectives([]byte(content), []Directive{{"A", "1"}})

		assert.Equal(t, content+"A=1\n", string(got))
	})

	t.Run("is idempotent", func(t *testing.T) {
		directives := []Directive{{"A", "1"}, {"B", `"x"`}}
		once := mergeDirectives([]byte("# A is not set\nZ=0\n"), directives)
		twice := mergeDirectives(once, directives)

		assert.Equal(t, string(once), string(twice))
	})

	t.Run("empty file receives the whole block", func(t *testing.T) {
		got := mergeDirectives(nil, []Directive{{"A", "1"}})

		assert.Equal(t, "A=1\n", string(got))
	})
}
