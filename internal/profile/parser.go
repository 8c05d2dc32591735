package profile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/ini.v1"
)

// loadOptions follow the conventions of the tool that writes these profiles:
// "#" inside a value is data (hex colors start with it), option names are
// case-insensitive, indented lines continue the previous value, quotes and
// trailing backslashes are kept verbatim, and duplicate sections or options
// are rejected rather than merged.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	AllowPythonMultilineValues: true,
	AllowNonUniqueSections:     true,
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
	PreserveSurroundedQuote:    true,
}

// rawPrefix marks a placeholder standing in for a value that ini.v1 would
// unquote. Placeholders look like "profilescan:raw:3:".
const rawPrefix = "profilescan:raw:"

var errNotUTF8 = errors.New("parsing profile: file is not valid UTF-8")

// Load reads and parses the profile at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the configured scan folders
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	f.Name = filepath.Base(path)
	f.Path = path
	return f, nil
}

// Parse turns sectioned key=value text into a File. Keys under an explicit
// [DEFAULT] section are inherited by every other section.
func Parse(data []byte) (*File, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return nil, errNotUTF8
	}

	src, raw, err := prepare(data)
	if err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(loadOptions, src)
	if err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	var (
		defaults []KeyValue
		named    []Section
	)
	seen := make(map[string]bool)
	for _, sec := range cfg.Sections() {
		name := sec.Name()
		if seen[name] && name != ini.DefaultSection {
			return nil, fmt.Errorf("parsing profile: section %q already exists", name)
		}
		seen[name] = true

		keys, err := sectionKeys(sec, raw)
		if err != nil {
			return nil, err
		}
		if name == ini.DefaultSection {
			defaults = append(defaults, keys...)
			continue
		}
		named = append(named, Section{Name: name, Keys: keys})
	}

	f := &File{Sections: make([]Section, 0, len(named))}
	for _, sec := range named {
		sec.Keys = mergeDefaults(defaults, sec.Keys)
		f.Sections = append(f.Sections, sec)
	}
	return f, nil
}

func sectionKeys(sec *ini.Section, raw map[string]string) ([]KeyValue, error) {
	keys := make([]KeyValue, 0, len(sec.Keys()))
	for _, k := range sec.Keys() {
		if vals := k.ValueWithShadows(); len(vals) > 1 {
			return nil, fmt.Errorf("parsing profile: option %q in section %q already exists", k.Name(), sec.Name())
		}
		keys = append(keys, KeyValue{Key: k.Name(), Value: joinLines(restoreRaw(k.Value(), raw))})
	}
	return keys, nil
}

// mergeDefaults lists the section's own keys first, then inherited keys the
// section does not override.
func mergeDefaults(defaults, own []KeyValue) []KeyValue {
	if len(defaults) == 0 {
		return own
	}
	ownKeys := make(map[string]bool, len(own))
	for _, kv := range own {
		ownKeys[kv.Key] = true
	}
	merged := make([]KeyValue, 0, len(defaults)+len(own))
	merged = append(merged, own...)
	for _, kv := range defaults {
		if !ownKeys[kv.Key] {
			merged = append(merged, kv)
		}
	}
	return merged
}

// prepare rewrites data into a form ini.v1 reads the same way the profile
// editor does:
//   - an option before the first [section] line is an error;
//   - comment lines are dropped even when indented, so they never join a
//     multi-line value;
//   - continuation lines are re-indented by one space, and blank lines
//     inside a value are kept when a continuation line follows them;
//   - values opening with a backtick or """ are swapped for placeholders,
//     since ini.v1 would strip those quotes. The returned map holds the
//     original text for each placeholder.
func prepare(data []byte) ([]byte, map[string]string, error) {
	var (
		out       bytes.Buffer
		raw       = make(map[string]string)
		inSection bool
		inOption  bool
		blanks    int // blank lines held back while inside a value
	)
	flushBlanks := func(prefix string) {
		for ; blanks > 0; blanks-- {
			out.WriteString(prefix)
			out.WriteByte('\n')
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			if inOption {
				blanks++
				continue
			}
		case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";"):
			continue
		case strings.HasPrefix(trimmed, "["):
			flushBlanks("")
			inSection = true
			inOption = false
		case !inSection:
			return nil, nil, fmt.Errorf("parsing profile: file contains no section headers (line %d: %q)", lineNo, trimmed)
		case inOption && (line[0] == ' ' || line[0] == '\t'):
			// An indented line continues the value, including the blank
			// lines before it.
			flushBlanks(" ")
			line = " " + trimmed
		default:
			flushBlanks("")
			inOption = true
			i := strings.IndexAny(trimmed, "=:")
			if i < 0 {
				break
			}
			value := strings.TrimSpace(trimmed[i+1:])
			if strings.HasPrefix(value, "`") || strings.HasPrefix(value, `"""`) {
				token := rawPrefix + strconv.Itoa(len(raw)) + ":"
				raw[token] = value
				line = strings.TrimSpace(trimmed[:i]) + " = " + token
			}
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("parsing profile: %w", err)
	}
	flushBlanks("")
	return out.Bytes(), raw, nil
}

// restoreRaw puts back the original text of a placeholder at the start of v.
// Anything after the placeholder came from continuation lines.
func restoreRaw(v string, raw map[string]string) string {
	if len(raw) == 0 || !strings.HasPrefix(v, rawPrefix) {
		return v
	}
	end := strings.IndexByte(v[len(rawPrefix):], ':')
	if end < 0 {
		return v
	}
	token := v[:len(rawPrefix)+end+1]
	original, ok := raw[token]
	if !ok {
		return v
	}
	return original + v[len(token):]
}

// joinLines strips every line of a multi-line value and drops trailing
// blank lines.
func joinLines(v string) string {
	if !strings.Contains(v, "\n") {
		return v
	}
	lines := strings.Split(v, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
