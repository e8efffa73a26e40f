package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Keys used in the persisted format.
const (
	KeyKeywords   = "keywords"
	KeyLocations  = "locations"
	KeySearchDesc = "searchDesc"
	KeyIncludeAll = "includeAll"
)

const (
	valueTrue  = "True"
	valueFalse = "False"
)

// ErrMalformedLine is returned for a non-blank line without "=".
var ErrMalformedLine = errors.New("malformed profile line")

// Parse reads a profile in the key=value1,value2 line format. Unknown keys
// are ignored and missing keys keep their zero value.
func Parse(r io.Reader) (Profile, error) {
	var p Profile

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Profile{}, fmt.Errorf("line %d: %w", lineNo, ErrMalformedLine)
		}

		switch strings.TrimSpace(key) {
		case KeyKeywords:
			p.Keywords = SplitList(value)
		case KeyLocations:
			p.Locations = SplitList(value)
		case KeySearchDesc:
			p.SearchDescription = parseBool(value)
		case KeyIncludeAll:
			p.RequireAllKeywords = parseBool(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	return p.Normalize(), nil
}

// Format writes p in the persisted line format.
func Format(w io.Writer, p Profile) error {
	p = p.Normalize()
	lines := []string{
		KeyKeywords + "=" + strings.Join(p.Keywords, ","),
		KeyLocations + "=" + strings.Join(p.Locations, ","),
		KeySearchDesc + "=" + formatBool(p.SearchDescription),
		KeyIncludeAll + "=" + formatBool(p.RequireAllKeywords),
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("write profile: %w", err)
		}
	}
	return nil
}

// LoadFile reads a profile from path.
func LoadFile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// SaveFile writes a profile to path, replacing any existing file.
func SaveFile(path string, p Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	if err := Format(f, p); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), valueTrue)
}

func formatBool(b bool) string {
	if b {
		return valueTrue
	}
	return valueFalse
}
