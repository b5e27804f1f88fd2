package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/scheduler"
	"github.com/smazurov/statusled/internal/status"
)

// DefaultIndicators reproduces the classic single-LED network monitor.
const DefaultIndicators = "led3=network:physical=eth2,slave=ppp0,tunnel=tun0"

// maxInterfaceName is IFNAMSIZ minus the terminating NUL.
const maxInterfaceName = 15

// IndicatorConfig is one [[indicator]] table or one --indicators entry.
type IndicatorConfig struct {
	Output      string   `toml:"output"`
	Kind        string   `toml:"kind"`
	Physical    []string `toml:"physical,omitempty"`
	Slave       []string `toml:"slave,omitempty"`
	Tunnel      []string `toml:"tunnel,omitempty"`
	Rate        string   `toml:"rate,omitempty"`
	DutyPercent int      `toml:"duty_percent,omitempty"`
}

// Slot is a validated indicator assignment ready to be built.
type Slot struct {
	Index       int
	Output      string
	Kind        indicator.Kind
	Network     indicator.NetworkConfig
	Rate        indicator.Rate
	RateSet     bool
	DutyPercent int
}

// ValidationError collects every configuration problem found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid configuration: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Addf records a problem.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Add records err. The problems of a nested *ValidationError are merged.
func (e *ValidationError) Add(err error) {
	if err == nil {
		return
	}
	var inner *ValidationError
	if errors.As(err, &inner) {
		e.Problems = append(e.Problems, inner.Problems...)
		return
	}
	e.Problems = append(e.Problems, err.Error())
}

// Err returns e when it holds problems and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// LoadIndicators reads [[indicator]] tables from a TOML file. A missing file
// yields no indicators.
func LoadIndicators(path string) ([]IndicatorConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var doc struct {
		Indicator []IndicatorConfig `toml:"indicator"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse indicators: %w", err)
	}
	return doc.Indicator, nil
}

// ParseIndicators parses the compact flag form:
//
//	led3=network:physical=eth0+eth1:link,slave=ppp0;led1=heartbeat:rate=fast
//
// Entries are separated by ';', the kind follows '=', and parameters follow
// the first ':'.
func ParseIndicators(spec string) ([]IndicatorConfig, error) {
	var out []IndicatorConfig
	for entry := range strings.SplitSeq(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		output, rest, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(output) == "" {
			return nil, fmt.Errorf("indicator %q: want output=kind[:params]", entry)
		}
		kind, params, _ := strings.Cut(rest, ":")

		ic := IndicatorConfig{
			Output: strings.TrimSpace(output),
			Kind:   strings.TrimSpace(kind),
		}
		if err := ic.applyParams(params); err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ic.Output, err)
		}
		out = append(out, ic)
	}
	if len(out) == 0 {
		return nil, errors.New("no indicators given")
	}
	return out, nil
}

func (ic *IndicatorConfig) applyParams(params string) error {
	for param := range strings.SplitSeq(params, ",") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			return fmt.Errorf("parameter %q: want key=value", param)
		}
		switch strings.ToLower(key) {
		case "physical", "phys", "eth":
			ic.Physical = append(ic.Physical, strings.Split(value, "+")...)
		case "slave", "ppp":
			ic.Slave = append(ic.Slave, strings.Split(value, "+")...)
		case "tunnel", "tun":
			ic.Tunnel = append(ic.Tunnel, strings.Split(value, "+")...)
		case "rate":
			ic.Rate = value
		case "duty":
			n, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
			if err != nil {
				return fmt.Errorf("duty %q: %w", value, err)
			}
			ic.DutyPercent = n
		default:
			return fmt.Errorf("unknown parameter %q", key)
		}
	}
	return nil
}

// SelectIndicators applies precedence: flag string, then config file
// tables, then DefaultIndicators.
func SelectIndicators(flagSpec string, fromFile []IndicatorConfig) ([]IndicatorConfig, error) {
	if strings.TrimSpace(flagSpec) != "" {
		return ParseIndicators(flagSpec)
	}
	if len(fromFile) > 0 {
		return fromFile, nil
	}
	return ParseIndicators(DefaultIndicators)
}

// Resolve validates indicator configs and assigns scheduler slots in order.
// Every problem is reported in a single *ValidationError.
func Resolve(configs []IndicatorConfig) ([]Slot, error) {
	verr := &ValidationError{}
	if len(configs) > scheduler.MaxSlots {
		verr.Addf("%d indicators configured, at most %d supported", len(configs), scheduler.MaxSlots)
	}

	outputs := make(map[string]int)
	slots := make([]Slot, 0, len(configs))
	for i, ic := range configs {
		where := fmt.Sprintf("indicator %d", i+1)
		if ic.Output != "" {
			where = fmt.Sprintf("indicator %d (%s)", i+1, ic.Output)
		}

		if ic.Output == "" {
			verr.Addf("%s: output is required", where)
		} else if prev, dup := outputs[ic.Output]; dup {
			verr.Addf("%s: output already used by indicator %d", where, prev+1)
		} else {
			outputs[ic.Output] = i
		}

		kind, err := indicator.ParseKind(ic.Kind)
		if err != nil {
			verr.Addf("%s: %v", where, err)
			continue
		}
		if kind == indicator.KindUnused {
			verr.Addf("%s: kind is required", where)
			continue
		}

		slot := Slot{Index: i, Output: ic.Output, Kind: kind}
		hasIfaces := len(ic.Physical)+len(ic.Slave)+len(ic.Tunnel) > 0

		switch kind {
		case indicator.KindNetwork:
			if !hasIfaces {
				verr.Addf("%s: network indicator needs at least one interface", where)
			}
			slot.Network.Physical = resolveMembers(verr, where, indicator.RolePhysical, ic.Physical)
			slot.Network.Slave = resolveMembers(verr, where, indicator.RoleSlave, ic.Slave)
			slot.Network.Tunnel = resolveMembers(verr, where, indicator.RoleTunnel, ic.Tunnel)
		default:
			if hasIfaces {
				verr.Addf("%s: interfaces only apply to network indicators", where)
			}
		}

		if kind == indicator.KindHeartbeat {
			if ic.Rate != "" {
				rate, err := indicator.ParseRate(ic.Rate)
				if err != nil {
					verr.Addf("%s: %v", where, err)
				}
				slot.Rate, slot.RateSet = rate, true
			}
			if ic.DutyPercent != 0 {
				if err := indicator.ValidateDuty(ic.DutyPercent); err != nil {
					verr.Addf("%s: %v", where, err)
				}
			}
			slot.DutyPercent = ic.DutyPercent
		} else if ic.Rate != "" || ic.DutyPercent != 0 {
			verr.Addf("%s: rate and duty only apply to heartbeat indicators", where)
		}

		slots = append(slots, slot)
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

func resolveMembers(verr *ValidationError, where string, role indicator.Role, refs []string) []indicator.Member {
	members := make([]indicator.Member, 0, len(refs))
	for _, ref := range refs {
		m, err := ParseInterfaceRef(ref, role.DefaultCheck())
		if err != nil {
			verr.Addf("%s: %s: %v", where, role, err)
			continue
		}
		members = append(members, m)
	}
	return members
}

// ParseInterfaceRef parses "name[:present|up|link|both]".
func ParseInterfaceRef(ref string, def status.CheckMode) (indicator.Member, error) {
	name, check, hasCheck := strings.Cut(strings.TrimSpace(ref), ":")
	if err := validInterfaceName(name); err != nil {
		return indicator.Member{}, err
	}
	m := indicator.Member{Name: name, Check: def}
	if hasCheck {
		mode, err := status.ParseCheckMode(check)
		if err != nil {
			return indicator.Member{}, err
		}
		m.Check = mode
	}
	return m, nil
}

func validInterfaceName(name string) error {
	switch {
	case name == "":
		return errors.New("empty interface name")
	case len(name) > maxInterfaceName:
		return fmt.Errorf("interface name %q longer than %d characters", name, maxInterfaceName)
	case name == "." || name == "..":
		return fmt.Errorf("invalid interface name %q", name)
	case strings.ContainsAny(name, "/ \t\n"):
		return fmt.Errorf("invalid interface name %q", name)
	}
	return nil
}
