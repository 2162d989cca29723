package atomicassets

import (
	"context"
	"fmt"
	"net/url"
)

// Ping checks the API server status and returns the raw envelope.
func (c *Client) Ping(ctx context.Context, args ...Arg) (*Envelope, error) {
	params, err := normalizeArgs(args...)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, c.endpoint("ping", params))
}

// GetAccounts returns how many assets of a collection an account owns.
func (c *Client) GetAccounts(ctx context.Context, matchOwner, collectionName string, args ...Arg) (int64, error) {
	params, err := withRequired(args, A("match_owner", matchOwner), A("collection_name", collectionName))
	if err != nil {
		return 0, err
	}

	env, err := c.get(ctx, c.endpoint("accounts", params))
	if err != nil {
		return 0, fmt.Errorf("failed to get accounts: %w", err)
	}

	var assets Count
	if err := extract(env, &assets, 0, "assets"); err != nil {
		return 0, fmt.Errorf("failed to get accounts: %w", err)
	}
	return int64(assets), nil
}

// GetAccountCollections returns the names of the collections an account holds assets of.
func (c *Client) GetAccountCollections(ctx context.Context, account string, args ...Arg) ([]string, error) {
	params, err := normalizeArgs(args...)
	if err != nil {
		return nil, err
	}
	if account == "" {
		return nil, &ArgumentError{Key: "account", Value: account}
	}

	env, err := c.get(ctx, c.endpoint("accounts/"+url.PathEscape(account), params))
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", account, err)
	}

	var collections []AccountCollection
	if err := extract(env, &collections, "collections"); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", account, err)
	}

	names := make([]string, 0, len(collections))
	for _, col := range collections {
		names = append(names, col.Collection.CollectionName)
	}
	return names, nil
}

// ListAssets returns the assets matching the given filters
// (collection_name, schema_name, template_id, owner, page, limit, ...).
func (c *Client) ListAssets(ctx context.Context, args ...Arg) ([]Asset, error) {
	params, err := normalizeArgs(args...)
	if err != nil {
		return nil, err
	}
	return c.listAssets(ctx, params)
}

// GetAssets returns the IDs of the assets matching the given filters.
func (c *Client) GetAssets(ctx context.Context, args ...Arg) ([]string, error) {
	assets, err := c.ListAssets(ctx, args...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.AssetID)
	}
	return ids, nil
}

// GetAssetByID fetches an asset by ID. The API answers with a list, which is
// returned as is.
func (c *Client) GetAssetByID(ctx context.Context, assetID string, args ...Arg) ([]Asset, error) {
	params, err := withRequired(args, A("asset_id", assetID))
	if err != nil {
		return nil, err
	}
	return c.listAssets(ctx, params)
}

// GetAssetOwner returns the account owning an asset.
func (c *Client) GetAssetOwner(ctx context.Context, assetID string, args ...Arg) (string, error) {
	params, err := withRequired(args, A("asset_id", assetID))
	if err != nil {
		return "", err
	}

	env, err := c.get(ctx, c.endpoint("assets", params))
	if err != nil {
		return "", fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}

	var owner string
	if err := extract(env, &owner, 0, "owner"); err != nil {
		return "", fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	return owner, nil
}

// GetAuthAccounts returns the authorized accounts of the collection an asset belongs to.
func (c *Client) GetAuthAccounts(ctx context.Context, assetID string, args ...Arg) ([]string, error) {
	params, err := withRequired(args, A("asset_id", assetID))
	if err != nil {
		return nil, err
	}
	return c.authorizedAccounts(ctx, params)
}

// GetCollectionAuthAccounts returns the authorized accounts of a collection.
func (c *Client) GetCollectionAuthAccounts(ctx context.Context, collectionName string, args ...Arg) ([]string, error) {
	params, err := withRequired(args, A("collection_name", collectionName))
	if err != nil {
		return nil, err
	}
	return c.authorizedAccounts(ctx, params)
}

// GetCollectionStats returns the asset counters of a collection.
func (c *Client) GetCollectionStats(ctx context.Context, collectionName string, args ...Arg) (*CollectionStats, error) {
	params, err := normalizeArgs(args...)
	if err != nil {
		return nil, err
	}
	if collectionName == "" {
		return nil, &ArgumentError{Key: "collection_name", Value: collectionName}
	}

	path := fmt.Sprintf("collections/%s/stats", url.PathEscape(collectionName))
	env, err := c.get(ctx, c.endpoint(path, params))
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for collection %s: %w", collectionName, err)
	}

	var stats CollectionStats
	if err := extract(env, &stats); err != nil {
		return nil, fmt.Errorf("failed to get stats for collection %s: %w", collectionName, err)
	}
	return &stats, nil
}

// GetCollectionTotalAssets returns the number of assets minted by a collection.
func (c *Client) GetCollectionTotalAssets(ctx context.Context, collectionName string, args ...Arg) (int64, error) {
	return c.collectionCounter(ctx, collectionName, "assets", args)
}

// GetCollectionTotalBurned returns the number of burned assets of a collection.
func (c *Client) GetCollectionTotalBurned(ctx context.Context, collectionName string, args ...Arg) (int64, error) {
	return c.collectionCounter(ctx, collectionName, "burned", args)
}

func (c *Client) collectionCounter(ctx context.Context, collectionName, field string, args []Arg) (int64, error) {
	params, err := normalizeArgs(args...)
	if err != nil {
		return 0, err
	}
	if collectionName == "" {
		return 0, &ArgumentError{Key: "collection_name", Value: collectionName}
	}

	path := fmt.Sprintf("collections/%s/stats", url.PathEscape(collectionName))
	env, err := c.get(ctx, c.endpoint(path, params))
	if err != nil {
		return 0, fmt.Errorf("failed to get stats for collection %s: %w", collectionName, err)
	}

	var n Count
	if err := extract(env, &n, field); err != nil {
		return 0, fmt.Errorf("failed to get stats for collection %s: %w", collectionName, err)
	}
	return int64(n), nil
}

func (c *Client) listAssets(ctx context.Context, params Params) ([]Asset, error) {
	env, err := c.get(ctx, c.endpoint("assets", params))
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	var assets []Asset
	if err := extract(env, &assets); err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	c.logger.Debug().Int("count", len(assets)).Msg("Retrieved assets from AtomicAssets")
	return assets, nil
}

func (c *Client) authorizedAccounts(ctx context.Context, params Params) ([]string, error) {
	env, err := c.get(ctx, c.endpoint("assets", params))
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	var accounts []string
	if err := extract(env, &accounts, 0, "collection", "authorized_accounts"); err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}
	return accounts, nil
}
