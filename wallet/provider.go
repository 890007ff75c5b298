package wallet

import (
	"context"
	"errors"
	"fmt"

	"riselink-backend/models"
)

// ErrWalletUnavailable signals that no wallet capability is present or the
// user rejected the request. Surfaced to the user, never retried.
var ErrWalletUnavailable = errors.New("wallet unavailable")

// CodeChainNotAdded is the provider error code for a chain the wallet does
// not know yet (EIP-3085 flow).
const CodeChainNotAdded = 4902

// ProviderError carries the wallet capability's numeric error code
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet provider error %d: %s", e.Code, e.Message)
}

// Provider is the wallet capability: the user-controlled key holder the
// session requests accounts, chain info, and chain switches from.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (string, error)
	SwitchChain(ctx context.Context, chainID string) error
	AddChain(ctx context.Context, def models.ChainDefinition) error
}

// ChangeListener receives externally-fired wallet notifications. The
// Session implements it; whoever bridges the capability's event stream
// calls these directly.
type ChangeListener interface {
	HandleAccountsChanged(accounts []string)
	HandleChainChanged(chainID string)
}

// RiseChain is the chain definition registered with the wallet when a
// switch reports the chain as unknown.
var RiseChain = models.ChainDefinition{
	ChainID:   "0x1",
	ChainName: "Rise Testnet",
	NativeCurrency: models.Currency{
		Name:     "Rise",
		Symbol:   "RISE",
		Decimals: 18,
	},
	RPCURLs:           []string{"https://rpc.risechain.com"},
	BlockExplorerURLs: []string{"https://explorer.risechain.com"},
}
