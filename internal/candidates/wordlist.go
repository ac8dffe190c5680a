package candidates

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// MalformedInputError reports a word list that is not a JSON array of strings.
type MalformedInputError struct {
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed word list %s: %v", e.Source, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// LoadWordList decodes a JSON array of strings from r.
func LoadWordList(r io.Reader) ([]string, error) {
	return loadWordList(r, "<input>")
}

// LoadWordListFile reads a JSON array of strings from path.
// A missing file is a plain error; unparseable content is *MalformedInputError.
func LoadWordListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	return loadWordList(f, path)
}

func loadWordList(r io.Reader, source string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", source, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &MalformedInputError{Source: source, Err: fmt.Errorf("expected a JSON array")}
	}

	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, &MalformedInputError{Source: source, Err: err}
	}
	return words, nil
}
