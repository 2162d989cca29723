package atomicassets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Count is an integer the API may encode either as a JSON number or as a
// numeric string ("assets": "42").
type Count int64

// UnmarshalJSON accepts 42, "42" and null.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", s, err)
		}
		*c = Count(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid count %s: %w", b, err)
	}
	*c = Count(n)
	return nil
}

// Collection represents an AtomicAssets collection
type Collection struct {
	CollectionName     string   `json:"collection_name"`
	Name               string   `json:"name"`
	Image              string   `json:"img"`
	Author             string   `json:"author"`
	AllowNotify        bool     `json:"allow_notify"`
	AuthorizedAccounts []string `json:"authorized_accounts"`
	NotifyAccounts     []string `json:"notify_accounts"`
	MarketFee          float64  `json:"market_fee"`
	CreatedAtTime      Count    `json:"created_at_time"`
}

// Schema represents the schema an asset was minted against
type Schema struct {
	SchemaName string `json:"schema_name"`
	Format     []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"format"`
}

// Template represents an asset template
type Template struct {
	TemplateID     string         `json:"template_id"`
	MaxSupply      Count          `json:"max_supply"`
	IssuedSupply   Count          `json:"issued_supply"`
	IsTransferable bool           `json:"is_transferable"`
	IsBurnable     bool           `json:"is_burnable"`
	ImmutableData  map[string]any `json:"immutable_data"`
}

// Asset represents a single NFT
type Asset struct {
	Contract       string         `json:"contract"`
	AssetID        string         `json:"asset_id"`
	Owner          string         `json:"owner"`
	Name           string         `json:"name"`
	IsTransferable bool           `json:"is_transferable"`
	IsBurnable     bool           `json:"is_burnable"`
	Collection     Collection     `json:"collection"`
	Schema         Schema         `json:"schema"`
	Template       *Template      `json:"template"`
	TemplateMint   Count          `json:"template_mint"`
	MutableData    map[string]any `json:"mutable_data"`
	ImmutableData  map[string]any `json:"immutable_data"`
	Data           map[string]any `json:"data"`
	BurnedByAcct   *string        `json:"burned_by_account"`
	MintedAtTime   Count          `json:"minted_at_time"`
	UpdatedAtTime  Count          `json:"updated_at_time"`
}

// MintedAt returns the mint time. The API reports it in milliseconds.
func (a *Asset) MintedAt() time.Time {
	if a.MintedAtTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(a.MintedAtTime))
}

// IsBurned checks if the asset has been burned
func (a *Asset) IsBurned() bool {
	return a.BurnedByAcct != nil && *a.BurnedByAcct != ""
}

// TemplateID returns the template ID, or "" for assets minted without one
func (a *Asset) TemplateID() string {
	if a.Template == nil {
		return ""
	}
	return a.Template.TemplateID
}

// CollectionStats holds the counters returned by collections/{name}/stats
type CollectionStats struct {
	Assets    Count `json:"assets"`
	Burned    Count `json:"burned"`
	Templates Count `json:"templates"`
	Schemas   Count `json:"schemas"`
}

// AccountCollection is one entry of an account's collection breakdown
type AccountCollection struct {
	Collection Collection `json:"collection"`
	Assets     Count      `json:"assets"`
}
