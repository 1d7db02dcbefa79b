package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Pool is one monitored body of water with its advisory thresholds and the
// setpoint drawn as the reference line on its chart.
type Pool struct {
	Name  string  `yaml:"name" json:"name" validate:"required"`
	High  float64 `yaml:"high" json:"high" validate:"gtfield=Low"`
	Low   float64 `yaml:"low" json:"low"`
	Ideal float64 `yaml:"ideal" json:"ideal"`
}

// Pools is the static pool table. Order is the configuration order and is
// preserved everywhere pools are listed or processed.
type Pools struct {
	Timezone string `yaml:"timezone"`
	Pools    []Pool `yaml:"pools" validate:"required,min=1,unique=Name,dive"`

	location *time.Location
}

// DefaultPools returns the reference deployment table.
func DefaultPools() *Pools {
	p := &Pools{
		Timezone: defaultTimezone,
		Pools: []Pool{
			{Name: "Big Pool", High: 98.5, Low: 88.0, Ideal: 93.5},
			{Name: "Covered Pool", High: 106.0, Low: 102.0, Ideal: 104.0},
			{Name: "Long Pool", High: 103.0, Low: 97.0, Ideal: 100.0},
			{Name: "Short Pool", High: 102.5, Low: 95.5, Ideal: 99.0},
			{Name: "Well", High: 112.0, Low: 95.0, Ideal: 100.0},
		},
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		panic(fmt.Sprintf("load default timezone: %v", err))
	}
	p.location = loc
	return p
}

// LoadPools resolves the pool table for cfg: the YAML file when PoolsFile is
// set, the defaults otherwise. cfg.Timezone applies unless the file names one.
func LoadPools(cfg Config) (*Pools, error) {
	if cfg.PoolsFile == "" {
		p := DefaultPools()
		if cfg.Timezone != "" && cfg.Timezone != p.Timezone {
			if err := p.setTimezone(cfg.Timezone); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	p, err := LoadPoolsFile(cfg.PoolsFile)
	if err != nil {
		return nil, err
	}
	if p.location == nil {
		tz := cfg.Timezone
		if tz == "" {
			tz = defaultTimezone
		}
		if err := p.setTimezone(tz); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadPoolsFile reads and parses a YAML pool table.
func LoadPoolsFile(path string) (*Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pools file: %w", err)
	}
	return ParsePools(data)
}

// ParsePools parses YAML pool table data. ${VAR} and ${VAR:-default} are
// expanded before parsing.
func ParsePools(data []byte) (*Pools, error) {
	expanded, err := expandEnvVars(string(data))
	if err != nil {
		return nil, err
	}

	var p Pools
	if err := yaml.Unmarshal([]byte(expanded), &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i := range p.Pools {
		p.Pools[i].Name = strings.TrimSpace(p.Pools[i].Name)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Timezone != "" {
		if err := p.setTimezone(p.Timezone); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Validate checks the table: at least one pool, unique non-empty names,
// high above low.
func (p *Pools) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid pool config: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	ns := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Pools."))
	switch fe.Tag() {
	case "required":
		if fe.Field() == "Pools" {
			return "pools: at least one pool is required"
		}
		return ns + ": name is required"
	case "min":
		return "pools: at least one pool is required"
	case "unique":
		return "pools: names must be unique"
	case "gtfield":
		return ns + ": high must be greater than low"
	default:
		return ns + ": failed " + fe.Tag()
	}
}

func (p *Pools) setTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	p.Timezone = name
	p.location = loc
	return nil
}

// Location is the local zone used for the day window and display.
func (p *Pools) Location() *time.Location {
	if p.location == nil {
		return time.UTC
	}
	return p.location
}

// Names lists pool names in configuration order.
func (p *Pools) Names() []string {
	out := make([]string, 0, len(p.Pools))
	for _, pool := range p.Pools {
		out = append(out, pool.Name)
	}
	return out
}

// Lookup finds a pool by exact name.
func (p *Pools) Lookup(name string) (Pool, bool) {
	for _, pool := range p.Pools {
		if pool.Name == name {
			return pool, true
		}
	}
	return Pool{}, false
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		value, ok := os.LookupEnv(name)
		if !ok {
			if hasDefault {
				return sub[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", name)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
