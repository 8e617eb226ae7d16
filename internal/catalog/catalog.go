package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// rawCard 卡牌文件中的原始卡牌定义
type rawCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

// rawPack 卡牌文件中的原始卡包定义
type rawPack struct {
	Name     string    `json:"name"`
	Official bool      `json:"official"`
	Black    []rawCard `json:"black"`
	White    []rawCard `json:"white"`
}

// validate 校验卡包结构，外部数据不可信
func (rp *rawPack) validate() error {
	if strings.TrimSpace(rp.Name) == "" {
		return fmt.Errorf("卡包名称为空")
	}
	for i, c := range rp.Black {
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("黑卡 #%d 文本为空", i)
		}
		if c.Pick < 0 {
			return fmt.Errorf("黑卡 #%d 的 pick 值无效: %d", i, c.Pick)
		}
	}
	for i, c := range rp.White {
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("白卡 #%d 文本为空", i)
		}
		if c.Pick != 0 {
			return fmt.Errorf("白卡 #%d 不应携带 pick 值", i)
		}
	}
	return nil
}

// Catalog 卡牌目录，加载完成后只读
type Catalog struct {
	packs []*Pack
	cards map[int]*Card
}

// Load 从 JSON 文件加载卡牌目录
// 非法卡包直接丢弃并记录日志，不会中断整体加载；返回成功索引的卡牌数量
func Load(path string) (*Catalog, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("读取卡牌文件失败: %w", err)
	}

	var rawPacks []rawPack
	if err := json.Unmarshal(data, &rawPacks); err != nil {
		return nil, 0, fmt.Errorf("解析卡牌文件失败: %w", err)
	}

	c := &Catalog{cards: make(map[int]*Card)}

	id := 0
	for _, rp := range rawPacks {
		if err := rp.validate(); err != nil {
			log.Printf("⚠️ 丢弃卡包 %q: %v", rp.Name, err)
			continue
		}

		// 卡包 ID 按加载顺序分配，卡牌 ID 全局递增（先白卡后黑卡）
		pack := &Pack{
			ID:       len(c.packs),
			Name:     rp.Name,
			Official: rp.Official,
			Black:    make([]Card, 0, len(rp.Black)),
			White:    make([]Card, 0, len(rp.White)),
		}

		for _, rc := range rp.White {
			card := Card{ID: id, Text: rc.Text, Pack: pack.ID}
			id++
			pack.White = append(pack.White, card)
		}
		for _, rc := range rp.Black {
			pick := rc.Pick
			if pick == 0 {
				pick = 1 // 未指定时默认需要一张白卡
			}
			card := Card{ID: id, Text: rc.Text, Pack: pack.ID, Pick: pick}
			id++
			pack.Black = append(pack.Black, card)
		}

		for i := range pack.White {
			c.cards[pack.White[i].ID] = &pack.White[i]
		}
		for i := range pack.Black {
			c.cards[pack.Black[i].ID] = &pack.Black[i]
		}

		c.packs = append(c.packs, pack)
	}

	return c, id, nil
}

// GetAllPacks 获取全部卡包
func (c *Catalog) GetAllPacks() []*Pack {
	return c.packs
}

// GetPack 按 ID 获取卡包，不存在返回 nil
func (c *Catalog) GetPack(id int) *Pack {
	if id < 0 || id >= len(c.packs) {
		return nil
	}
	return c.packs[id]
}

// GetCard 按全局 ID 获取卡牌，不存在返回 nil
func (c *Catalog) GetCard(id int) *Card {
	return c.cards[id]
}

// CardCount 已索引的卡牌总数
func (c *Catalog) CardCount() int {
	return len(c.cards)
}
