package app

import (
	"github.com/goliatone/go-optionspage/internal/config"
	"github.com/goliatone/go-optionspage/pkg/validation"
	"github.com/goliatone/go-optionspage/pkg/validation/luafilter"
)

// BuildFilter assembles the submission filter from configuration: optional
// whitespace trimming, per-key tag stripping or HTML sanitising, then the Lua
// script. The returned close func releases the script.
func BuildFilter(cfg config.FiltersConfig) (validation.Filter, func() error, error) {
	var chain []validation.Filter
	if cfg.TrimSpace {
		chain = append(chain, validation.TrimSpace)
	}

	byKey := make(map[string]validation.Filter, len(cfg.StripTags)+len(cfg.SanitizeHTML))
	for _, key := range cfg.StripTags {
		byKey[key] = validation.StripTags
	}
	for _, key := range cfg.SanitizeHTML {
		byKey[key] = validation.SanitizeHTML
	}
	if len(byKey) > 0 {
		chain = append(chain, validation.ForKeys(byKey, validation.Identity))
	}

	closeFn := func() error { return nil }
	if cfg.Lua != "" {
		script, err := luafilter.Load(cfg.Lua)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, script.Filter())
		closeFn = func() error {
			script.Close()
			return nil
		}
	}

	return validation.Chain(chain...), closeFn, nil
}
