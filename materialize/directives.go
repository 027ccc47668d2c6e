package materialize

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var (
	directiveKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	assignedLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=`)
	unsetLine    = regexp.MustCompile(`^# ([A-Za-z_][A-Za-z0-9_]*) is not set$`)
)

// Directive is a single KEY=value assignment consumed by the build driver
type Directive struct {
	Key   string
	Value string
}

func (d Directive) String() string {
	return d.Key + "=" + d.Value
}

// ParseDirective parses a KEY=value line
func ParseDirective(line string) (Directive, error) {
	line = strings.TrimSpace(line)
	key, value, ok := strings.Cut(line, "=")
	if !ok || !directiveKey.MatchString(key) {
		return Directive{}, fmt.Errorf("invalid directive %q: want KEY=value", line)
	}
	if strings.ContainsAny(value, "\r\n") {
		return Directive{}, fmt.Errorf("invalid directive %q: value spans several lines", line)
	}
	return Directive{Key: key, Value: value}, nil
}

// ParseDirectives parses every non-empty, non-comment line of text
func ParseDirectives(text string) ([]Directive, error) {
	var out []Directive
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := ParseDirective(line)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// RenderDirectives formats directives one per line; the block ends with a
// newline unless it is empty.
func RenderDirectives(directives []Directive) string {
	var b strings.Builder
	for _, d := range directives {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Dedupe collapses directives sharing a key: the last value wins and the
// position of the first occurrence is kept.
func Dedupe(directives []Directive) []Directive {
	index := map[string]int{}
	var out []Directive
	for _, d := range directives {
		if i, ok := index[d.Key]; ok {
			out[i].Value = d.Value
			continue
		}
		index[d.Key] = len(out)
		out = append(out, d)
	}
	return out
}

func lineKey(line []byte) string {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if m := assignedLine.FindSubmatch(line); m != nil {
		return string(m[1])
	}
	if m := unsetLine.FindSubmatch(line); m != nil {
		return string(m[1])
	}
	return ""
}

// mergeDirectives returns content with every directive applied. The first
// line assigning a key (or marking it "is not set") is rewritten in place;
// later lines for the same key are dropped. Keys absent from content are
// appended in directive order. Lines for other keys are kept byte for byte.
func mergeDirectives(content []byte, directives []Directive) []byte {
	directives = Dedupe(directives)
	wanted := make(map[string]Directive, len(directives))
	for _, d := range directives {
		wanted[d.Key] = d
	}

	seen := map[string]bool{}
	var out bytes.Buffer
	lines := bytes.SplitAfter(content, []byte("\n"))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		key := lineKey(bytes.TrimSuffix(line, []byte("\n")))
		d, ok := wanted[key]
		if key == "" || !ok {
			out.Write(line)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out.WriteString(d.String())
		out.WriteByte('\n')
	}

	var missing []Directive
	for _, d := range directives {
		if !seen[d.Key] {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		if out.Len() > 0 && !bytes.HasSuffix(out.Bytes(), []byte("\n")) {
			out.WriteByte('\n')
		}
		out.WriteString(RenderDirectives(missing))
	}
	return out.Bytes()
}
