package altura

// Collection represents an NFT collection as returned by the collection endpoint
type Collection struct {
	ID           string   `json:"id"`
	Address      string   `json:"address,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Slug         string   `json:"slug,omitempty"`
	Image        string   `json:"image,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Genre        string   `json:"genre,omitempty"`
	Website      string   `json:"website,omitempty"`
	OwnerAddress string   `json:"ownerAddress,omitempty"`
	ChainID      int      `json:"chainId"`
	Holders      int      `json:"holders"`
	Volume       float64  `json:"volume"`
	MintCount    int      `json:"mintCount"`
	URI          string   `json:"uri,omitempty"`
	Verified     bool     `json:"verified"`
	Tags         []string `json:"tags,omitempty"`
}

// DisplayName returns the best available name for the collection
func (c *Collection) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Slug != "" {
		return c.Slug
	}
	if c.Address != "" {
		return c.Address
	}
	return c.ID
}

// User represents the account behind an API key
type User struct {
	Address     string `json:"address"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	ProfilePic  string `json:"profilePic,omitempty"`
	Email       string `json:"email,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Website     string `json:"website,omitempty"`
	Verified    bool   `json:"verified"`
	TotalItems  int    `json:"totalItems"`
	TotalTrades int    `json:"totalTrades"`
}

// GetDisplayName returns the best available display name for the user
func (u *User) GetDisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Address
}

// TransferReceipt is the result of an item transfer
type TransferReceipt struct {
	TxHash string `json:"txHash"`
}

// HasTxHash reports whether the platform returned a transaction hash
func (r *TransferReceipt) HasTxHash() bool {
	return r.TxHash != ""
}
