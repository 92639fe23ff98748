package sector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookup maps symbols to sector codes. Loaded once from the static table
// and read-only afterwards, so it is safe for concurrent reads.
type Lookup struct {
	bySymbol map[string]string
}

// sectorFile is the on-disk shape of the sector table.
type sectorFile struct {
	Sectors map[string][]string `yaml:"sectors"` // sector code → symbols
}

// LoadLookup reads the symbol→sector table from a YAML file.
func LoadLookup(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sector table: %w", err)
	}

	var file sectorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sector table: %w", err)
	}

	bySymbol := make(map[string]string)
	for code, symbols := range file.Sectors {
		for _, symbol := range symbols {
			bySymbol[symbol] = code
		}
	}
	return &Lookup{bySymbol: bySymbol}, nil
}

// NewLookup builds a lookup from an in-memory mapping. Used in tests and by
// the sector refresh command.
func NewLookup(bySymbol map[string]string) *Lookup {
	m := make(map[string]string, len(bySymbol))
	for k, v := range bySymbol {
		m[k] = v
	}
	return &Lookup{bySymbol: m}
}

// Sector returns the sector code for a symbol. Symbols without a sector
// return ok=false and are excluded from sector-based sampling.
func (l *Lookup) Sector(symbol string) (string, bool) {
	code, ok := l.bySymbol[symbol]
	return code, ok
}

// Size returns the number of mapped symbols.
func (l *Lookup) Size() int {
	return len(l.bySymbol)
}

// WriteFile persists a symbol→sector mapping as the YAML table format.
func WriteFile(path string, bySymbol map[string]string) error {
	file := sectorFile{Sectors: make(map[string][]string)}
	for symbol, code := range bySymbol {
		file.Sectors[code] = append(file.Sectors[code], symbol)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshal sector table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sector table: %w", err)
	}
	return nil
}
