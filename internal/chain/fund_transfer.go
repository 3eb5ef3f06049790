package chain

import (
	"fmt"
	"math/big"

	"github.com/blues/lfs/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// VaultTransfer 资金划转通道的链上实现。
// 托管合约按单一结算资产部署，asset参数仅作校验。
type VaultTransfer struct {
	client *Client
	asset  string
}

// NewVaultTransfer 创建链上资金划转通道
func NewVaultTransfer(client *Client, asset string) *VaultTransfer {
	return &VaultTransfer{client: client, asset: asset}
}

// Debit 把参与者资金划入托管
func (t *VaultTransfer) Debit(from, asset string, amount int64) error {
	if t.asset != "" && asset != t.asset {
		return fmt.Errorf("unsupported asset %s, vault settles %s", asset, t.asset)
	}

	auth, err := t.client.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}

	tx, err := t.client.vault.Transact(auth, "collect", common.HexToAddress(from), big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("collect transaction failed: %w", err)
	}

	logger.Info("Submitted collect of %d from %s: %s", amount, from, tx.Hash().Hex())
	return nil
}

// Credit 把托管资金划出给接收者
func (t *VaultTransfer) Credit(to, asset string, amount int64) error {
	if t.asset != "" && asset != t.asset {
		return fmt.Errorf("unsupported asset %s, vault settles %s", asset, t.asset)
	}

	auth, err := t.client.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}

	tx, err := t.client.vault.Transact(auth, "release", common.HexToAddress(to), big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("release transaction failed: %w", err)
	}

	logger.Info("Submitted release of %d to %s: %s", amount, to, tx.Hash().Hex())
	return nil
}
