/*
Package config loads the tunable knobs of the engine from a TOML file:
the completion delimiter set, recovery/recursion budgets, the default
locale for marker messages, and the trace level. It also exposes the few
boolean runtime toggles gorgo itself keeps as schuko/gconf flags rather
than file-shaped settings.

Grounded on dekarrin/tunaq's TOML-decoded settings structs (internal/tqw,
server/config.go) for the file-loading shape, and on gorgo's
lr/earley/parsetree.go, which reads gconf.GetBool("panic-on-parser-stuck")
to decide whether a stuck parser walk panics or degrades — the same
toggle this package keeps, now guarding the Navigator's stuck-walk path
instead of gorgo's own tree builder.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/schuko/gconf"
	"github.com/scala-steward/diesel-core/completion"
)

// Config holds the file-shaped settings of the engine. Zero value is not
// meaningful; use Default() or Load().
type Config struct {
	// Delimiters is the set of runes the completion processor treats as
	// "just after a token boundary" (spec.md §4.3). Defaults to
	// completion.DefaultDelimiters.
	Delimiters string `toml:"delimiters"`

	// MaxRecoveryErrors bounds how many errors (recovered terminals and
	// semantic-action errors) a single derivation may carry before the
	// FewerErrorPossible reducer ranks it below any sibling within that
	// budget; 0 means unlimited.
	MaxRecoveryErrors int `toml:"max_recovery_errors"`

	// MaxCompletionDepth bounds how many non-terminals the completion
	// walk's visited-set may accumulate per top-level prediction state
	// before it gives up on a pathological grammar; 0 means unlimited.
	MaxCompletionDepth int `toml:"max_completion_depth"`

	// Locale is a BCP-47-style locale setting, "en" by default. No code in
	// this module reads it: marker messages are produced in a single
	// language regardless of its value.
	Locale string `toml:"locale"`

	// TraceLevel is one of "Debug", "Info", "Error" as accepted by
	// tracing.TraceLevelFromString.
	TraceLevel string `toml:"trace_level"`
}

// Default returns the Config an engine uses when no file is loaded.
func Default() Config {
	return Config{
		Delimiters: completion.DefaultDelimiters,
		Locale:     "en",
		TraceLevel: "Info",
	}
}

// Load reads a TOML file at path and overlays it on Default(); fields
// absent from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return cfg, nil
}

// PanicOnParserStuck reports whether a stuck Navigator walk (spec.md §9's
// "too many ASTs" branch notwithstanding — this guards a genuinely
// unreachable internal-invariant violation, not ordinary ambiguity)
// should panic rather than degrade to a diagnostic error. Modeled on
// gorgo's own gconf.GetBool("panic-on-parser-stuck") toggle; set via
// gconf, not this package's TOML file, since it is a debugging aid
// rather than a deployment-shaped setting.
func PanicOnParserStuck() bool {
	return gconf.GetBool("panic-on-parser-stuck")
}
