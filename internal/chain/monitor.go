package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

const logBatchSize = int64(500)

// EventMonitor 区块链事件监控器。
// 轮询托管合约日志并落库，断点从数据库已处理的最大区块号恢复。
type EventMonitor struct {
	client          *Client
	db              *gorm.DB
	pollInterval    time.Duration
	lastBlock       int64
	ctx             context.Context
	cancel          context.CancelFunc
	retryCount      int
	backoffDuration time.Duration
	mu              sync.RWMutex
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(client *Client, db *gorm.DB, cfg config.ChainConfig) *EventMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	interval := time.Duration(cfg.PollInterval) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	return &EventMonitor{
		client:          client,
		db:              db,
		pollInterval:    interval,
		ctx:             ctx,
		cancel:          cancel,
		backoffDuration: 5 * time.Second,
	}
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	if err := m.loadLastBlock(); err != nil {
		logger.Warn("Failed to load last block, starting from config: %v", err)
		m.setLastBlock(m.client.GetStartBlock())
	}

	logger.Info("Starting blockchain monitor from block %d", m.getLastBlock())

	go m.loop()
	return nil
}

// Stop 停止监控
func (m *EventMonitor) Stop() {
	logger.Info("Stopping blockchain event monitor")
	m.cancel()
}

// loadLastBlock 从数据库加载最后处理的区块号
func (m *EventMonitor) loadLastBlock() error {
	var maxProcessedBlock int64
	err := m.db.Model(&model.ChainEventModel{}).
		Select("COALESCE(MAX(block_num), 0)").
		Scan(&maxProcessedBlock).Error
	if err != nil {
		return err
	}

	startBlock := m.client.GetStartBlock()
	if maxProcessedBlock >= startBlock {
		startBlock = maxProcessedBlock + 1
	}
	m.setLastBlock(startBlock)

	logger.Info("Resuming from block %d (config: %d, db: %d)",
		startBlock, m.client.GetStartBlock(), maxProcessedBlock)
	return nil
}

// loop 监控循环
func (m *EventMonitor) loop() {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-ticker.C:
			if err := m.processNewBlocks(); err != nil {
				m.handleError(err)
				if m.isAPIRateLimitError(err) {
					logger.Warn("API rate limit hit, backing off %v", m.backoffDuration)
					time.Sleep(m.backoffDuration)
				}
			} else {
				m.retryCount = 0
			}
		}
	}
}

// processNewBlocks 处理新区块
func (m *EventMonitor) processNewBlocks() error {
	currentBlock, err := m.client.GetLatestBlock()
	if err != nil {
		return fmt.Errorf("failed to get current block number: %w", err)
	}

	fromBlock := m.getLastBlock()
	for currentFrom := fromBlock; currentFrom <= currentBlock; currentFrom += logBatchSize {
		currentTo := currentFrom + logBatchSize - 1
		if currentTo > currentBlock {
			currentTo = currentBlock
		}

		if err := m.processBatch(currentFrom, currentTo); err != nil {
			if m.isAPIRateLimitError(err) {
				return err
			}
			logger.Error("Error processing blocks %d-%d: %v", currentFrom, currentTo, err)
			continue
		}

		m.setLastBlock(currentTo + 1)
	}

	return nil
}

// processBatch 批量处理区块
func (m *EventMonitor) processBatch(fromBlock, toBlock int64) error {
	logs, err := m.client.GetLogs(fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("error getting logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}

	if len(logs) == 0 {
		return nil
	}

	logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, toBlock)

	// 按合约地址分组后并发处理
	logsByAddress := m.groupLogsByAddress(logs)
	groupCount := len(logsByAddress)

	tempPool, err := ants.NewPool(groupCount)
	if err != nil {
		return fmt.Errorf("failed to create temporary pool for %d groups: %w", groupCount, err)
	}
	defer tempPool.Release()

	var wg sync.WaitGroup
	for address, addressLogs := range logsByAddress {
		addressLogs := addressLogs
		if address != m.client.VaultAddr {
			logger.Debug("Skipping %d logs from contract %s", len(addressLogs), address.Hex())
			continue
		}

		wg.Add(1)
		if err := tempPool.Submit(func() {
			defer wg.Done()
			m.processVaultLogs(addressLogs)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit task to pool: %v", err)
		}
	}
	wg.Wait()

	return nil
}

// processVaultLogs 处理托管合约的所有日志
func (m *EventMonitor) processVaultLogs(logs []types.Log) {
	for _, l := range logs {
		if err := m.processLog(l); err != nil {
			logger.Error("Error processing log: %v", err)
			continue
		}
	}
}

// processLog 处理单个日志
func (m *EventMonitor) processLog(l types.Log) error {
	eventData, err := m.client.ParseVaultEvent(l)
	if err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}

	// 检查事件是否已存在
	var count int64
	if err := m.db.Model(&model.ChainEventModel{}).
		Where("tx_hash = ? AND log_index = ?", l.TxHash.Hex(), int64(l.Index)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check if event exists: %w", err)
	}
	if count > 0 {
		return nil
	}

	event := model.ChainEventModel{
		EventName: eventData["eventName"].(string),
		TxHash:    l.TxHash.Hex(),
		BlockNum:  int64(l.BlockNumber),
		LogIndex:  int64(l.Index),
		Processed: true,
	}

	if funder, ok := eventData["funder"].(common.Address); ok {
		event.Address = funder.Hex()
	}
	if recipient, ok := eventData["recipient"].(common.Address); ok {
		event.Address = recipient.Hex()
	}
	if amount, ok := eventData["amount"].(*big.Int); ok {
		event.Amount = amount.Int64()
	}

	if err := m.db.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	logger.Info("Saved event %s in block %d", event.EventName, l.BlockNumber)
	return nil
}

// handleError 处理错误，指数退避
func (m *EventMonitor) handleError(err error) {
	m.retryCount++

	if m.retryCount > 5 {
		m.backoffDuration = 5 * time.Minute
	} else {
		m.backoffDuration = time.Duration(m.retryCount) * 10 * time.Second
	}

	logger.Error("Monitor encountered error (retry %d): %v", m.retryCount, err)
}

// isAPIRateLimitError 检查是否为API限制错误
func (m *EventMonitor) isAPIRateLimitError(err error) bool {
	return strings.Contains(err.Error(), "Too Many Requests")
}

// groupLogsByAddress 按合约地址分组日志
func (m *EventMonitor) groupLogsByAddress(logs []types.Log) map[common.Address][]types.Log {
	logsByAddress := make(map[common.Address][]types.Log)
	for _, l := range logs {
		logsByAddress[l.Address] = append(logsByAddress[l.Address], l)
	}
	return logsByAddress
}

func (m *EventMonitor) getLastBlock() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastBlock
}

func (m *EventMonitor) setLastBlock(blockNum int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBlock = blockNum
}
