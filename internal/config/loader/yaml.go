package loader

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader. A nil fs uses the OS file system.
func NewYAMLLoader(fs FileSystem) *YAMLLoader {
	if fs == nil {
		fs = DefaultFS()
	}
	return &YAMLLoader{fs: fs}
}

// LoadFrom reads configuration from a specific path.
func (l *YAMLLoader) LoadFrom(path string, v any) (bool, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return false, err
	}
	return true, l.Decode(path, data, v)
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Decode parses YAML data into v. Unknown keys are rejected. An empty
// document leaves v untouched.
func (l *YAMLLoader) Decode(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return perr
	}
	return nil
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
