package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/waxatomic/atomicassets"
	"github.com/s0up4200/waxatomic/filter"
)

var (
	queryParams []string
	whereExpr   string
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the API server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := client.Ping(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, env, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is reachable (success=%t)\n", cfg.API.BaseURL, env.Success)
		})
	},
}

var accountAssetsCmd = &cobra.Command{
	Use:   "account-assets <owner> <collection>",
	Short: "Count the assets an account owns in a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := client.GetAccounts(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(cmd, map[string]any{"owner": args[0], "collection": args[1], "assets": count}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s owns %d assets in %s\n", args[0], count, args[1])
		})
	},
}

var collectionsCmd = &cobra.Command{
	Use:   "collections <account>",
	Short: "List the collections an account holds assets of",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := client.GetAccountCollections(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, names, func() { printList(cmd, names) })
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List assets matching query parameters and an optional filter",
	Long: `List assets matching the given query parameters, for example

  waxatomic assets --param collection_name=alien.worlds --param owner=alice.wam

Results can be narrowed further with an expression evaluated locally:

  waxatomic assets --param collection_name=alien.worlds --where 'Mint <= 100 && hasData("rarity")'`,
	Args: cobra.NoArgs,
	RunE: runAssets,
}

func runAssets(cmd *cobra.Command, args []string) error {
	qargs, err := parseParams(queryParams)
	if err != nil {
		return err
	}

	var f *filter.Filter
	if whereExpr != "" {
		f, err = filter.Compile(whereExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	assets, err := client.ListAssets(cmd.Context(), qargs...)
	if err != nil {
		return err
	}

	if f != nil {
		total := len(assets)
		assets, err = f.Apply(assets)
		if err != nil {
			return err
		}
		logger.Debug().
			Str("filter", f.String()).
			Int("total", total).
			Int("matched", len(assets)).
			Msg("Applied asset filter")
	}

	return printResult(cmd, assets, func() { printAssets(cmd, assets) })
}

var assetCmd = &cobra.Command{
	Use:   "asset <asset-id>",
	Short: "Show a single asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := client.GetAssetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			return fmt.Errorf("asset %s not found", args[0])
		}
		return printResult(cmd, assets[0], func() { printAssets(cmd, assets[:1]) })
	},
}

var ownerCmd = &cobra.Command{
	Use:   "owner <asset-id>...",
	Short: "Look up the owners of one or more assets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOwner,
}

// ownerResult is one row of the owner command output
type ownerResult struct {
	AssetID string `json:"asset_id"`
	Owner   string `json:"owner,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runOwner(cmd *cobra.Command, args []string) error {
	results := lookupOwners(cmd, args)

	return printResult(cmd, results, func() {
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s ERROR %s\n", r.AssetID, r.Error)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", r.AssetID, r.Owner)
		}
	})
}

// lookupOwners resolves owners concurrently; a failed lookup is reported in
// its row and does not cancel the others.
func lookupOwners(cmd *cobra.Command, ids []string) []ownerResult {
	results := make([]ownerResult, len(ids))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.API.Concurrency)

	for i, id := range ids {
		g.Go(func() error {
			owner, err := client.GetAssetOwner(ctx, id)
			results[i] = ownerResult{AssetID: id, Owner: owner}
			if err != nil {
				logger.Warn().Err(err).Str("asset_id", id).Msg("Failed to get asset owner")
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

var authAccountsCmd = &cobra.Command{
	Use:   "auth-accounts <asset-id>",
	Short: "List the accounts authorized on an asset's collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := client.GetAuthAccounts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, accounts, func() { printList(cmd, accounts) })
	},
}

var collectionAuthCmd = &cobra.Command{
	Use:   "collection-auth <collection>",
	Short: "List the accounts authorized on a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := client.GetCollectionAuthAccounts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, accounts, func() { printList(cmd, accounts) })
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <collection>",
	Short: "Show asset, burn, template and schema counts for a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := client.GetCollectionStats(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, stats, func() {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Collection %s:\n", args[0])
			fmt.Fprintf(out, "- Assets:    %d\n", stats.Assets)
			fmt.Fprintf(out, "- Burned:    %d\n", stats.Burned)
			fmt.Fprintf(out, "- Templates: %d\n", stats.Templates)
			fmt.Fprintf(out, "- Schemas:   %d\n", stats.Schemas)
		})
	},
}

func init() {
	assetsCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "query parameter as key=value (repeatable)")
	assetsCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression evaluated against each asset")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(accountAssetsCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(ownerCmd)
	rootCmd.AddCommand(authAccountsCmd)
	rootCmd.AddCommand(collectionAuthCmd)
	rootCmd.AddCommand(statsCmd)
}

// parseParams turns key=value pairs into query arguments, preserving order
func parseParams(pairs []string) ([]atomicassets.Arg, error) {
	args := make([]atomicassets.Arg, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		args = append(args, atomicassets.A(key, value))
	}
	return args, nil
}

func printList(cmd *cobra.Command, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "None")
		return
	}
	for _, item := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "• %s\n", item)
	}
}

func printAssets(cmd *cobra.Command, assets []atomicassets.Asset) {
	out := cmd.OutOrStdout()
	if len(assets) == 0 {
		fmt.Fprintln(out, "No assets found.")
		return
	}

	fmt.Fprintln(out, strings.Repeat("━", 85))
	fmt.Fprintf(out, "%-16s %-14s %-20s %-8s %s\n", "ASSET", "OWNER", "COLLECTION", "MINT", "NAME")
	fmt.Fprintln(out, strings.Repeat("━", 85))

	for _, a := range assets {
		name := a.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		owner := a.Owner
		if a.IsBurned() {
			owner = "[BURNED]"
		}
		fmt.Fprintf(out, "%-16s %-14s %-20s %-8d %s\n", a.AssetID, owner, a.Collection.CollectionName, a.TemplateMint, name)
	}
	fmt.Fprintln(out, strings.Repeat("━", 85))
}
