package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 链上通道客户端，封装奖励代币合约与资金托管合约
type Client struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainId       int64
	startBlock    int64
	confirmations int

	TokenAddr common.Address
	VaultAddr common.Address

	tokenABI abi.ABI
	vaultABI abi.ABI
	token    *bind.BoundContract
	vault    *bind.BoundContract
}

// 奖励代币合约ABI定义（简化版）
const tokenABIJson = `[
	{
		"inputs": [
			{"name": "recipient", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "mint",
		"outputs": [],
		"type": "function"
	},
	{
		"inputs": [
			{"name": "holder", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "burn",
		"outputs": [],
		"type": "function"
	},
	{
		"inputs": [
			{"name": "holder", "type": "address"}
		],
		"name": "balanceOf",
		"outputs": [
			{"name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// 资金托管合约ABI定义（简化版）
const vaultABIJson = `[
	{
		"inputs": [
			{"name": "funder", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "collect",
		"outputs": [],
		"type": "function"
	},
	{
		"inputs": [
			{"name": "recipient", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "release",
		"outputs": [],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "funder", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "FundsCollected",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "recipient", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "FundsReleased",
		"type": "event"
	}
]`

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	// 解析ABI
	tokenABI, err := abi.JSON(strings.NewReader(tokenABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}
	vaultABI, err := abi.JSON(strings.NewReader(vaultABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault ABI: %w", err)
	}

	tokenAddr := common.HexToAddress(cfg.TokenAddr)
	vaultAddr := common.HexToAddress(cfg.VaultAddr)

	return &Client{
		client:        client,
		privateKey:    privateKey,
		chainId:       cfg.ChainId,
		startBlock:    cfg.StartBlock,
		confirmations: cfg.Confirmations,
		TokenAddr:     tokenAddr,
		VaultAddr:     vaultAddr,
		tokenABI:      tokenABI,
		vaultABI:      vaultABI,
		token:         bind.NewBoundContract(tokenAddr, tokenABI, client, client, client),
		vault:         bind.NewBoundContract(vaultAddr, vaultABI, client, client, client),
	}, nil
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock() (int64, error) {
	header, err := c.client.HeaderByNumber(context.Background(), nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Int64(), nil
}

// GetStartBlock 获取配置的监控起始区块
func (c *Client) GetStartBlock() int64 {
	return c.startBlock
}

// GetLogs 获取指定区块范围内两个合约的日志
func (c *Client) GetLogs(fromBlock, toBlock int64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
		Addresses: []common.Address{c.TokenAddr, c.VaultAddr},
	}

	return c.client.FilterLogs(context.Background(), query)
}

// ParseVaultEvent 解析托管合约事件日志
func (c *Client) ParseVaultEvent(log types.Log) (map[string]interface{}, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}
	eventSignature := log.Topics[0].Hex()

	for eventName, event := range c.vaultABI.Events {
		if event.ID.Hex() == eventSignature {
			return c.parseEvent(eventName, log, event)
		}
	}

	logger.Warn("Unknown event signature: %s", eventSignature)
	return map[string]interface{}{
		"eventName":   "Unknown",
		"signature":   eventSignature,
		"txHash":      log.TxHash.Hex(),
		"blockNumber": log.BlockNumber,
		"logIndex":    log.Index,
	}, nil
}

// parseEvent 解析事件
func (c *Client) parseEvent(eventName string, log types.Log, event abi.Event) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	result["eventName"] = eventName
	result["txHash"] = log.TxHash.Hex()
	result["blockNumber"] = log.BlockNumber
	result["logIndex"] = log.Index

	// 解析索引参数
	if len(log.Topics) > 1 {
		for i, input := range event.Inputs {
			if input.Indexed && i+1 < len(log.Topics) {
				value, err := c.parseTopicValue(log.Topics[i+1], input.Type)
				if err != nil {
					logger.Warn("Failed to parse indexed parameter %s: %v", input.Name, err)
					continue
				}
				result[input.Name] = value
			}
		}
	}

	// 解析非索引参数
	if len(log.Data) > 0 {
		values, err := c.vaultABI.Unpack(eventName, log.Data)
		if err != nil {
			logger.Warn("Failed to unpack non-indexed parameters: %v", err)
		} else {
			idx := 0
			for _, input := range event.Inputs {
				if input.Indexed {
					continue
				}
				if idx < len(values) {
					result[input.Name] = values[idx]
				}
				idx++
			}
		}
	}

	return result, nil
}

// parseTopicValue 解析主题值
func (c *Client) parseTopicValue(topic common.Hash, t abi.Type) (interface{}, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return new(big.Int).SetBytes(topic.Bytes()), nil
	case abi.AddressTy:
		return common.BytesToAddress(topic.Bytes()), nil
	case abi.BoolTy:
		return new(big.Int).SetBytes(topic.Bytes()).Cmp(big.NewInt(0)) > 0, nil
	default:
		return topic.Hex(), nil
	}
}

// GetTransactionReceipt 获取交易回执
func (c *Client) GetTransactionReceipt(txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(context.Background(), txHash)
}

// IsTransactionConfirmed 检查交易是否已确认
func (c *Client) IsTransactionConfirmed(txHash common.Hash) (bool, error) {
	receipt, err := c.GetTransactionReceipt(txHash)
	if err != nil {
		return false, err
	}

	if receipt == nil {
		return false, nil
	}

	latestBlock, err := c.GetLatestBlock()
	if err != nil {
		return false, err
	}

	return latestBlock >= receipt.BlockNumber.Int64()+int64(c.confirmations), nil
}

// GetAccountAddress 获取账户地址
func (c *Client) GetAccountAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// GetAuth 获取交易授权
func (c *Client) GetAuth() (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(c.privateKey, big.NewInt(c.chainId))
}
