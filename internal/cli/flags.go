package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"country-linker/internal/config"
	"country-linker/internal/linker"
	"country-linker/internal/match"
)

// policyFlags are the matching knobs shared by link and explain.
type policyFlags struct {
	threshold      int
	scorer         string
	foldDiacritics bool
	overrides      map[string]string
}

func (p *policyFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&p.threshold, "threshold", linker.DefaultThreshold, "lowest accepted similarity score (0-100)")
	fs.StringVar(&p.scorer, "scorer", match.DefaultScorer, "similarity scorer: "+strings.Join(match.ScorerNames(), "|"))
	fs.BoolVar(&p.foldDiacritics, "fold-diacritics", false, "fold accented letters to ASCII before matching")
	fs.StringToStringVar(&p.overrides, "override", nil, "extra override NAME=ISO3 (repeatable)")
}

// apply copies the flags the user set explicitly onto cfg.
func (p *policyFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("threshold") {
		cfg.SetThreshold(p.threshold)
	}

	if fs.Changed("scorer") {
		cfg.Scorer = p.scorer
	}

	if fs.Changed("fold-diacritics") {
		cfg.FoldDiacritics = p.foldDiacritics
	}

	if fs.Changed("override") {
		if cfg.Overrides == nil {
			cfg.Overrides = make(map[string]string, len(p.overrides))
		}

		for name, code := range p.overrides {
			cfg.Overrides[name] = code
		}
	}
}
