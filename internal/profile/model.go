package profile

import (
	"bytes"
	"encoding/json"
)

// Finding categories.
const (
	CategoryMissing    = "Missing Required Field"
	CategoryInvalidHex = "Invalid Hex Code Value"
	CategoryParseError = "Parse error"
)

// File is a parsed color profile. Sections and their keys keep file order.
type File struct {
	Name     string // basename
	Path     string
	Sections []Section
}

// Section is one [name] block of a profile.
type Section struct {
	Name string
	Keys []KeyValue
}

// KeyValue is a raw, untrimmed field value.
type KeyValue struct {
	Key   string
	Value string
}

// Lookup returns the value of key in s.
func (s Section) Lookup(key string) (string, bool) {
	for _, kv := range s.Keys {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Finding lists the fields recorded under one category.
type Finding struct {
	Category string
	Fields   []string
}

// Findings groups field names by category, in order of first occurrence.
// It marshals to a JSON object {category: [field, ...]}.
type Findings []Finding

func (f *Findings) add(category, field string) {
	for i := range *f {
		if (*f)[i].Category == category {
			(*f)[i].Fields = append((*f)[i].Fields, field)
			return
		}
	}
	*f = append(*f, Finding{Category: category, Fields: []string{field}})
}

// Get returns the fields recorded under category.
func (f Findings) Get(category string) []string {
	for _, fd := range f {
		if fd.Category == category {
			return fd.Fields
		}
	}
	return nil
}

// Count is the number of recorded fields across all categories.
func (f Findings) Count() int {
	n := 0
	for _, fd := range f {
		n += len(fd.Fields)
	}
	return n
}

// MarshalJSON writes the findings as an object, preserving category order.
func (f Findings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fd := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, fd.Category, fd.Fields); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FileFindings maps profile basenames to their findings in insertion order.
// Setting an existing name replaces its findings but keeps its position.
type FileFindings struct {
	names  []string
	byName map[string]Findings
}

// Set records findings for name.
func (ff *FileFindings) Set(name string, f Findings) {
	if ff.byName == nil {
		ff.byName = make(map[string]Findings)
	}
	if _, ok := ff.byName[name]; !ok {
		ff.names = append(ff.names, name)
	}
	ff.byName[name] = f
}

// Get returns the findings recorded for name.
func (ff *FileFindings) Get(name string) (Findings, bool) {
	f, ok := ff.byName[name]
	return f, ok
}

// Names lists file names in insertion order.
func (ff *FileFindings) Names() []string {
	return ff.names
}

// Len is the number of files with findings.
func (ff *FileFindings) Len() int {
	return len(ff.names)
}

// Total sums the field counts of every file.
func (ff *FileFindings) Total() int {
	n := 0
	for _, name := range ff.names {
		n += ff.byName[name].Count()
	}
	return n
}

// MarshalJSON writes {file: {category: [field]}} in insertion order.
func (ff FileFindings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range ff.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, name, ff.byName[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
