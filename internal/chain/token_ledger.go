package chain

import (
	"fmt"
	"math/big"

	"github.com/blues/lfs/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// TokenLedger 奖励代币账本的链上实现，铸造和销毁走代币合约
type TokenLedger struct {
	client *Client
}

// NewTokenLedger 创建链上代币账本
func NewTokenLedger(client *Client) *TokenLedger {
	return &TokenLedger{client: client}
}

// Mint 铸造代币
func (l *TokenLedger) Mint(recipient string, amount int64) error {
	auth, err := l.client.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}

	tx, err := l.client.token.Transact(auth, "mint", common.HexToAddress(recipient), big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("mint transaction failed: %w", err)
	}

	logger.Info("Submitted mint of %d to %s: %s", amount, recipient, tx.Hash().Hex())
	return nil
}

// Burn 销毁代币
func (l *TokenLedger) Burn(holder string, amount int64) error {
	auth, err := l.client.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}

	tx, err := l.client.token.Transact(auth, "burn", common.HexToAddress(holder), big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("burn transaction failed: %w", err)
	}

	logger.Info("Submitted burn of %d from %s: %s", amount, holder, tx.Hash().Hex())
	return nil
}

// BalanceOf 查询余额
func (l *TokenLedger) BalanceOf(holder string) (int64, error) {
	var out []interface{}
	if err := l.client.token.Call(nil, &out, "balanceOf", common.HexToAddress(holder)); err != nil {
		return 0, fmt.Errorf("balanceOf call failed: %w", err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("balanceOf returned no value")
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected balanceOf return type %T", out[0])
	}
	return balance.Int64(), nil
}
