package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileSource serves legs from a YAML fixture of the form
//
//	flights:
//	  SFO-BOS-2026-03-10:
//	    - airline: Alaska
//	      departure: "8:00 AM on Tue, Mar 10"
//	      ...
type FileSource struct {
	flights map[string][]domain.RawLeg
}

type fixture struct {
	Flights map[string][]domain.RawLeg `yaml:"flights"`
}

func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flights fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse flights fixture: %w", err)
	}
	src := &FileSource{flights: make(map[string][]domain.RawLeg, len(f.Flights))}
	for k, legs := range f.Flights {
		src.flights[strings.ToUpper(k)] = legs
	}
	return src, nil
}

func (s *FileSource) Search(ctx context.Context, q Query) ([]domain.RawLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	legs := s.flights[fixtureKey(q)]
	out := make([]domain.RawLeg, len(legs))
	copy(out, legs)
	return out, nil
}

func fixtureKey(q Query) string {
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", q.Origin, q.Destination, q.Date))
}
