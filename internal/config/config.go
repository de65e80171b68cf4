// Package config holds run settings: built-in defaults, an optional YAML
// file, and validation. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"scaffold/internal/alignment"
	"scaffold/internal/linkage"
	"scaffold/internal/report"
)

// Config is the full set of tunables for one run.
type Config struct {
	Coord    report.Coord         `yaml:"coord" validate:"oneof=boundary index"`
	Boundary linkage.BoundaryRule `yaml:"boundary" validate:"oneof=strand start end"`
	Grouping linkage.Grouping     `yaml:"grouping" validate:"oneof=auto adjacent buffered"`

	MinMapQ        int  `yaml:"min_mapq" validate:"min=0,max=255"`
	DropQCFail     bool `yaml:"drop_qcfail"`
	DropDuplicates bool `yaml:"drop_duplicates"`

	MinSupport int  `yaml:"min_support" validate:"min=1"`
	Header     bool `yaml:"header"`

	MaxConsecutiveSkips int `yaml:"max_consecutive_skips" validate:"min=1"`
	QueueSize           int `yaml:"queue_size" validate:"min=1"`
}

// Default returns settings that reproduce the plain report: reference
// indices in the coordinate columns, every link, no header row.
func Default() Config {
	return Config{
		Coord:               report.CoordIndex,
		Boundary:            linkage.BoundaryStrand,
		Grouping:            linkage.GroupAuto,
		MinSupport:          1,
		MaxConsecutiveSkips: alignment.DefaultMaxConsecutiveSkips,
		QueueSize:           1024,
	}
}

// Load overlays the YAML file at path onto base. Unknown keys are errors.
func Load(path string, base Config) (Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	defer fh.Close()
	return Decode(fh, base)
}

// Decode overlays YAML from r onto base.
func Decode(r io.Reader, base Config) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := base
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
	})
	return v
}()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v violates %s", fe.Field(), fe.Value(), constraint(fe)))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// ReaderOptions derives alignment reader settings.
func (c Config) ReaderOptions() alignment.Options {
	return alignment.Options{MaxConsecutiveSkips: c.MaxConsecutiveSkips}
}

// LinkageOptions derives aggregator settings. Grouping is left unresolved.
func (c Config) LinkageOptions() linkage.Options {
	return linkage.Options{
		Boundary: c.Boundary,
		Grouping: c.Grouping,
		Filter: alignment.Filter{
			MinMapQ:        c.MinMapQ,
			DropQCFail:     c.DropQCFail,
			DropDuplicates: c.DropDuplicates,
		},
	}
}

// ReportOptions derives rendering settings.
func (c Config) ReportOptions() report.Options {
	return report.Options{Coord: c.Coord, Header: c.Header, MinSupport: c.MinSupport}
}
