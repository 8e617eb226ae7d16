package player

import (
	"sync"
)

// Player 玩家身份，由注册表统一管理，游戏会话只持有引用
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Registry 玩家注册表
type Registry struct {
	players map[int]*Player
	nextID  int
	mu      sync.RWMutex
}

// NewRegistry 创建玩家注册表
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[int]*Player),
	}
}

// Create 创建玩家，ID 单调递增
func (r *Registry) Create(name string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Player{ID: r.nextID, Name: name}
	r.nextID++
	r.players[p.ID] = p
	return p
}

// Get 按 ID 查找玩家，不存在返回 nil
func (r *Registry) Get(id int) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[id]
}

// GetAll 获取全部玩家，按 ID 升序
func (r *Registry) GetAll() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*Player, 0, len(r.players))
	for id := 0; id < r.nextID; id++ {
		if p, ok := r.players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// Delete 删除玩家；是否仍在进行中的游戏里由调用方先行检查
func (r *Registry) Delete(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}
