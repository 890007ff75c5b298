package models

// WalletState is the ephemeral wallet session record. Address keeps the
// capability's original casing; lower-casing happens at identity resolution.
type WalletState struct {
	Address     string `json:"address"`
	IsConnected bool   `json:"is_connected"`
	ChainID     int64  `json:"chain_id"`
}

// ChainDefinition describes a chain for the wallet capability's add-chain call
type ChainDefinition struct {
	ChainID           string   `json:"chainId"` // hex-encoded
	ChainName         string   `json:"chainName"`
	NativeCurrency    Currency `json:"nativeCurrency"`
	RPCURLs           []string `json:"rpcUrls"`
	BlockExplorerURLs []string `json:"blockExplorerUrls"`
}

// Currency is the native currency entry of a ChainDefinition
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}
