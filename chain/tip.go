package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// TxSender is the wallet capability's sign-and-submit primitive
type TxSender interface {
	SendTransaction(ctx context.Context, from, to common.Address, value *big.Int) (common.Hash, error)
}

// ReceiptWaiter is the chain capability's receipt-wait primitive
type ReceiptWaiter interface {
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// TipSender sends a one-shot native-currency tip. A failure at signing,
// submission, or confirmation is a single terminal error; a submitted but
// unconfirmed transaction is not tracked after the call returns.
type TipSender struct {
	wallet TxSender
	chain  ReceiptWaiter
}

func NewTipSender(wallet TxSender, chain ReceiptWaiter) *TipSender {
	return &TipSender{wallet: wallet, chain: chain}
}

// SendTip transfers the given RISE amount (a decimal ether-denominated
// string) from the connected wallet to the recipient and waits for the
// receipt.
func (t *TipSender) SendTip(ctx context.Context, from, to, amount string) (*types.Receipt, error) {
	if !common.IsHexAddress(from) {
		return nil, fmt.Errorf("invalid sender address: %s", from)
	}
	if !common.IsHexAddress(to) {
		return nil, fmt.Errorf("invalid recipient address: %s", to)
	}

	value, err := ParseEther(amount)
	if err != nil {
		return nil, err
	}

	hash, err := t.wallet.SendTransaction(ctx, common.HexToAddress(from), common.HexToAddress(to), value)
	if err != nil {
		return nil, fmt.Errorf("failed to send tip: %w", err)
	}

	receipt, err := t.chain.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm tip: %w", err)
	}

	return receipt, nil
}

// ParseEther converts a decimal ether-denominated amount to wei,
// truncating anything below one wei.
func ParseEther(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", amount)
	}

	wei := new(big.Rat).Mul(r, new(big.Rat).SetInt64(params.Ether))
	return new(big.Int).Quo(wei.Num(), wei.Denom()), nil
}
