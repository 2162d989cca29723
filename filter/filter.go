// Package filter selects assets with expr-lang expressions such as
//
//	Collection == "alien.worlds" && Mint <= 100 && hasData("rarity")
//
// String matching uses the language operators (Name contains "Blade",
// Owner endsWith ".wam") and builtins such as lower() and now().
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/waxatomic/atomicassets"
)

// Filter represents a compiled asset filter
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	// Compile against the environment of an empty asset so helper signatures are checked
	program, err := expr.Compile(expression,
		expr.Env(assetEnv(atomicassets.Asset{})),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against an asset
func (f *Filter) Match(asset atomicassets.Asset) (bool, error) {
	result, err := expr.Run(f.program, assetEnv(asset))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, AssetID: asset.AssetID, Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			AssetID:    asset.AssetID,
			Reason:     fmt.Sprintf("expression returned %T, not bool", result),
		}
	}
	return matched, nil
}

// Apply returns the assets the filter matches, stopping at the first evaluation error
func (f *Filter) Apply(assets []atomicassets.Asset) ([]atomicassets.Asset, error) {
	var out []atomicassets.Asset
	for _, a := range assets {
		ok, err := f.Match(a)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// String returns the expression the filter was compiled from
func (f *Filter) String() string {
	return f.expr
}

func assetEnv(asset atomicassets.Asset) map[string]any {
	return map[string]any{
		"Asset": asset,

		// Direct asset properties for convenience
		"AssetID":            asset.AssetID,
		"Owner":              asset.Owner,
		"Name":               asset.Name,
		"Collection":         asset.Collection.CollectionName,
		"CollectionName":     asset.Collection.Name,
		"AuthorizedAccounts": asset.Collection.AuthorizedAccounts,
		"Schema":             asset.Schema.SchemaName,
		"TemplateID":         asset.TemplateID(),
		"Mint":               int64(asset.TemplateMint),
		"Transferable":       asset.IsTransferable,
		"Burnable":           asset.IsBurnable,
		"Burned":             asset.IsBurned(),
		"MintedAt":           asset.MintedAt(),
		"Data":               asset.Data,

		// Data helpers
		"hasData": func(key string) bool {
			_, ok := asset.Data[key]
			return ok
		},
		"dataString": func(key string) string {
			if v, ok := asset.Data[key]; ok {
				return fmt.Sprint(v)
			}
			return ""
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
	}
}
