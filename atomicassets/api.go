package atomicassets

import (
	"context"
)

// API defines the AtomicAssets operations used by the CLI
type API interface {
	// Ping checks the API server status
	Ping(ctx context.Context, args ...Arg) (*Envelope, error)

	// GetAccounts returns how many assets of a collection an account owns
	GetAccounts(ctx context.Context, matchOwner, collectionName string, args ...Arg) (int64, error)

	// GetAccountCollections lists the collections an account holds assets of
	GetAccountCollections(ctx context.Context, account string, args ...Arg) ([]string, error)

	ListAssets(ctx context.Context, args ...Arg) ([]Asset, error)
	GetAssets(ctx context.Context, args ...Arg) ([]string, error)
	GetAssetByID(ctx context.Context, assetID string, args ...Arg) ([]Asset, error)
	GetAssetOwner(ctx context.Context, assetID string, args ...Arg) (string, error)

	GetAuthAccounts(ctx context.Context, assetID string, args ...Arg) ([]string, error)
	GetCollectionAuthAccounts(ctx context.Context, collectionName string, args ...Arg) ([]string, error)

	GetCollectionStats(ctx context.Context, collectionName string, args ...Arg) (*CollectionStats, error)
	GetCollectionTotalAssets(ctx context.Context, collectionName string, args ...Arg) (int64, error)
	GetCollectionTotalBurned(ctx context.Context, collectionName string, args ...Arg) (int64, error)
}

var _ API = (*Client)(nil)
