package testutil

import (
	"packbot/models"
)

// CreateTestCard creates an owned card with default stats
func CreateTestCard(discordID int64, name string, rarity models.Rarity) *models.OwnedCard {
	return &models.OwnedCard{
		DiscordID: discordID,
		Name:      name,
		ImageRef:  name + ".png",
		Attack:    100,
		Life:      50,
		Rarity:    rarity,
	}
}

// CreateTestCardWithStats creates an owned card with specific stats
func CreateTestCardWithStats(discordID int64, name string, rarity models.Rarity, attack, life float64) *models.OwnedCard {
	card := CreateTestCard(discordID, name, rarity)
	card.Attack = attack
	card.Life = life
	return card
}
