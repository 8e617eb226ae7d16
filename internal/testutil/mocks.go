//go:build !production

// Package testutil 提供测试用的替身实现
package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// BroadcastRecord 一次广播调用的记录
type BroadcastRecord struct {
	PlayerIDs []int // 为 nil 时表示广播给所有连接
	Msg       *protocol.Message
}

// RecordingBroadcaster 记录所有广播调用，供断言使用
type RecordingBroadcaster struct {
	mu      sync.Mutex
	records []BroadcastRecord
}

func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{}
}

func (b *RecordingBroadcaster) BroadcastToPlayers(playerIDs []int, msg *protocol.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(playerIDs))
	copy(ids, playerIDs)
	b.records = append(b.records, BroadcastRecord{PlayerIDs: ids, Msg: msg})
}

func (b *RecordingBroadcaster) BroadcastToAll(msg *protocol.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, BroadcastRecord{Msg: msg})
}

// Records 返回记录副本
func (b *RecordingBroadcaster) Records() []BroadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	records := make([]BroadcastRecord, len(b.records))
	copy(records, b.records)
	return records
}

// MessagesOfType 按类型过滤记录到的消息
func (b *RecordingBroadcaster) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	var msgs []*protocol.Message
	for _, r := range b.records {
		if r.Msg != nil && r.Msg.Type == t {
			msgs = append(msgs, r.Msg)
		}
	}
	return msgs
}

// Reset 清空记录
func (b *RecordingBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
}

// MockScoreRecorder 基于 testify/mock 的战绩记录器
type MockScoreRecorder struct {
	mock.Mock
}

func (m *MockScoreRecorder) RecordGameResult(ctx context.Context, p protocol.PlayerInfo, roundsWon int, winner bool) error {
	args := m.Called(ctx, p, roundsWon, winner)
	return args.Error(0)
}
