package ruleset

import (
	"errors"
	"fmt"
	"os"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// fileSchema mirrors the on-disk YAML layout of a rule database.
type fileSchema struct {
	Game     GameInfo `yaml:"game"`
	Warnings Warnings `yaml:"warnings"`

	CrashgenIgnore    []string `yaml:"crashgen_ignore"`
	IgnorePlugins     []string `yaml:"ignore_plugins"`
	IgnoreRecords     []string `yaml:"ignore_records"`
	IgnoreList        []string `yaml:"ignore_list"`
	CatchRecords      []string `yaml:"catch_records"`
	ExcludeLogRecords []string `yaml:"exclude_log_records"`

	ErrorSuspects *Table     `yaml:"error_suspects"`
	StackSuspects *listTable `yaml:"stack_suspects"`

	ModsFreq      *Table `yaml:"mods_freq"`
	ModsConf      *Table `yaml:"mods_conf"`
	ModsSolu      *Table `yaml:"mods_solu"`
	ModsOPC       *Table `yaml:"mods_opc2"`
	ModsCore      *Table `yaml:"mods_core"`
	ModsCoreFolon *Table `yaml:"mods_core_folon"`
}

// Load reads, compiles and validates a rule database file. The signal
// grammar is parsed here so that scans never re-parse rule strings.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided ruleset path is expected
	if err != nil {
		return nil, fmt.Errorf("reading ruleset file: %w", err)
	}

	var raw fileSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing ruleset file: %w", err)
	}

	rs, err := compile(&raw)
	if err != nil {
		return nil, fmt.Errorf("validating ruleset: %w", err)
	}
	return rs, nil
}

func compile(raw *fileSchema) (*RuleSet, error) {
	if raw.Game.Name == "" {
		return nil, errors.New("game.name is required")
	}
	if raw.Game.XSEAcronym == "" {
		return nil, errors.New("game.xse_acronym is required")
	}
	if raw.Game.CrashgenName == "" {
		return nil, errors.New("game.crashgen_name is required")
	}
	if raw.Game.MainESM == "" {
		raw.Game.MainESM = raw.Game.Name + ".esm"
	}

	rs := &RuleSet{
		Game:              raw.Game,
		Warnings:          raw.Warnings,
		CrashgenIgnore:    raw.CrashgenIgnore,
		IgnorePlugins:     raw.IgnorePlugins,
		IgnoreRecords:     raw.IgnoreRecords,
		IgnoreList:        raw.IgnoreList,
		CatchRecords:      raw.CatchRecords,
		ExcludeLogRecords: raw.ExcludeLogRecords,
		ModsFreq:          raw.ModsFreq,
		ModsConf:          raw.ModsConf,
		ModsSolu:          raw.ModsSolu,
		ModsOPC:           raw.ModsOPC,
		ModsCore:          raw.ModsCore,
		ModsCoreFolon:     raw.ModsCoreFolon,
	}

	for _, key := range raw.ErrorSuspects.Keys() {
		severity, name, err := splitRuleKey(key)
		if err != nil {
			return nil, fmt.Errorf("error_suspects: %w", err)
		}
		signal := raw.ErrorSuspects.Get(key)
		if signal == "" {
			return nil, fmt.Errorf("error_suspects[%s]: signal string is empty", key)
		}
		rs.ErrorSuspects = append(rs.ErrorSuspects, ErrorRule{
			Severity: severity,
			Name:     name,
			Signal:   signal,
		})
	}

	if raw.StackSuspects != nil {
		for _, key := range raw.StackSuspects.keys {
			severity, name, err := splitRuleKey(key)
			if err != nil {
				return nil, fmt.Errorf("stack_suspects: %w", err)
			}
			rawSignals := raw.StackSuspects.values[key]
			if len(rawSignals) == 0 {
				return nil, fmt.Errorf("stack_suspects[%s]: signal list is empty", key)
			}
			signals := make([]Signal, 0, len(rawSignals))
			for _, rawSignal := range rawSignals {
				signal, err := ParseSignal(rawSignal)
				if err != nil {
					return nil, fmt.Errorf("stack_suspects[%s]: %w", key, err)
				}
				signals = append(signals, signal)
			}
			rs.StackSuspects = append(rs.StackSuspects, StackRule{
				Severity: severity,
				Name:     name,
				Signals:  signals,
			})
		}
	}

	var err error
	if rs.crashgenLatest, err = parseVersionToken(raw.Game.CrashgenLatest); err != nil {
		return nil, fmt.Errorf("game.crashgen_latest: %w", err)
	}
	if rs.crashgenLatestVR, err = parseVersionToken(raw.Game.CrashgenLatestVR); err != nil {
		return nil, fmt.Errorf("game.crashgen_latest_vr: %w", err)
	}

	return rs, nil
}

// parseVersionToken extracts the "vX.Y.Z" token from a free-form version
// line such as "Buffout 4 v1.28.6". Returns nil for an empty input.
func parseVersionToken(s string) (*version.Version, error) {
	token := VersionToken(s)
	if token == "" {
		if s == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("no version token in %q", s)
	}
	v, err := version.NewVersion(token)
	if err != nil {
		return nil, fmt.Errorf("parsing version token %q: %w", token, err)
	}
	return v, nil
}
