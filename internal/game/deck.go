package game

import (
	"math/rand/v2"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
)

// shuffleCards 原地洗牌
func shuffleCards(cards []catalog.Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// buildBlackPile 用所选卡包的全部黑卡生成一摞洗好的牌堆
func buildBlackPile(packs []*catalog.Pack) []catalog.Card {
	var pile []catalog.Card
	for _, pack := range packs {
		pile = append(pile, pack.Black...)
	}
	shuffleCards(pile)
	return pile
}

// buildWhitePile 用所选卡包的白卡生成洗好的牌堆，排除仍在手牌中的卡
func buildWhitePile(packs []*catalog.Pack, hands [][]catalog.Card) []catalog.Card {
	inPlay := make(map[int]struct{})
	for _, hand := range hands {
		for _, card := range hand {
			inPlay[card.ID] = struct{}{}
		}
	}

	var pile []catalog.Card
	for _, pack := range packs {
		for _, card := range pack.White {
			if _, ok := inPlay[card.ID]; !ok {
				pile = append(pile, card)
			}
		}
	}
	shuffleCards(pile)
	return pile
}

// drawCard 从牌堆末尾抽一张
func drawCard(pile *[]catalog.Card) (catalog.Card, bool) {
	if len(*pile) == 0 {
		return catalog.Card{}, false
	}
	card := (*pile)[len(*pile)-1]
	*pile = (*pile)[:len(*pile)-1]
	return card, true
}

// shuffledPlayers 返回玩家列表的洗牌副本，作为初始裁判轮换队列
func shuffledPlayers(players []*player.Player) []*player.Player {
	rotation := make([]*player.Player, len(players))
	copy(rotation, players)
	rand.Shuffle(len(rotation), func(i, j int) {
		rotation[i], rotation[j] = rotation[j], rotation[i]
	})
	return rotation
}
