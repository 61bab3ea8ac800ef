package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoader creates a TOML loader. A nil fs uses the OS file system.
func NewTOMLLoader(fs FileSystem) *TOMLLoader {
	if fs == nil {
		fs = DefaultFS()
	}
	return &TOMLLoader{fs: fs}
}

// LoadFrom reads configuration from a specific path.
func (l *TOMLLoader) LoadFrom(path string, v any) (bool, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return false, err
	}
	return true, l.Decode(path, data, v)
}

// Decode parses TOML data into v. Unknown keys are rejected.
func (l *TOMLLoader) Decode(source string, data []byte, v any) error {
	dec := toml.NewDecoder(bytesReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) && len(serr.Errors) > 0 {
			perr.Line, perr.Column = serr.Errors[0].Position()
			perr.Message = "unknown key " + serr.Errors[0].String()
		}
		return perr
	}
	return nil
}
