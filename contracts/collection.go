package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"riselink-backend/models"
)

// Collection wraps an ERC-721 collection contract for the NFT showcase
type Collection struct {
	client  *ethclient.Client
	address common.Address
	name    string
	abi     abi.ABI
}

// NewCollection creates a Collection reader for the given contract address
func NewCollection(client *ethclient.Client, address, name string) (*Collection, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid collection address: %s", address)
	}

	// ERC-721 + Enumerable ABI - only the functions we need
	erc721ABI := `[
		{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"}
	]`

	parsedABI, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-721 ABI: %w", err)
	}

	return &Collection{
		client:  client,
		address: common.HexToAddress(address),
		name:    name,
		abi:     parsedABI,
	}, nil
}

// OwnedNFTs reads the tokens the owner holds in this collection, up to
// limit. The chain is the only source; nothing is persisted.
func (c *Collection) OwnedNFTs(ctx context.Context, owner string, limit int) ([]models.NFT, error) {
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("invalid wallet address: %s", owner)
	}
	ownerAddr := common.HexToAddress(owner)

	var balance *big.Int
	if err := c.call(ctx, &balance, "balanceOf", ownerAddr); err != nil {
		return nil, err
	}

	count := int(balance.Int64())
	if count > limit {
		count = limit
	}

	nfts := make([]models.NFT, 0, count)
	for i := 0; i < count; i++ {
		var tokenID *big.Int
		if err := c.call(ctx, &tokenID, "tokenOfOwnerByIndex", ownerAddr, big.NewInt(int64(i))); err != nil {
			return nil, err
		}

		var tokenURI string
		if err := c.call(ctx, &tokenURI, "tokenURI", tokenID); err != nil {
			return nil, err
		}

		nfts = append(nfts, models.NFT{
			ID:              fmt.Sprintf("%s-%s", c.address.Hex(), tokenID.String()),
			Name:            fmt.Sprintf("%s #%s", c.name, tokenID.String()),
			Image:           tokenURI,
			Collection:      c.name,
			TokenID:         tokenID.String(),
			ContractAddress: c.address.Hex(),
		})
	}

	return nfts, nil
}

func (c *Collection) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s call data: %w", method, err)
	}

	raw, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: callData,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := c.abi.UnpackIntoInterface(result, method, raw); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}
