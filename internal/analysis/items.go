package analysis

// itemGoldValues maps Data Dragon item ids to their shop gold cost. The table
// covers the completed items and core components that dominate purchase
// events; anything else falls back to defaultItemGold.
var itemGoldValues = map[int]int{
	// Starter and components
	1001: 300,  // Boots
	1036: 350,  // Long Sword
	1037: 875,  // Pickaxe
	1038: 1300, // B. F. Sword
	1042: 250,  // Dagger
	1052: 400,  // Amplifying Tome
	1053: 900,  // Vampiric Scepter
	1058: 1200, // Needlessly Large Rod
	1026: 850,  // Blasting Wand
	1027: 350,  // Sapphire Crystal
	1028: 400,  // Ruby Crystal
	1029: 300,  // Cloth Armor
	1031: 800,  // Chain Vest
	1033: 400,  // Null-Magic Mantle
	1057: 900,  // Negatron Cloak
	1011: 900,  // Giant's Belt
	3044: 1100, // Phage
	3057: 700,  // Sheen
	3067: 800,  // Kindlegem
	3133: 1100, // Caulfield's Warhammer
	3134: 1300, // Serrated Dirk
	3145: 1100, // Hextech Alternator
	2420: 250,  // Seeker's Armguard

	// Boots upgrades
	3006: 1100, // Berserker's Greaves
	3009: 1000, // Boots of Swiftness
	3020: 1100, // Sorcerer's Shoes
	3047: 1100, // Plated Steelcaps
	3111: 1200, // Mercury's Treads
	3158: 900,  // Ionian Boots of Lucidity

	// Completed items
	3031: 3400, // Infinity Edge
	3036: 3000, // Lord Dominik's Regards
	3072: 3200, // Bloodthirster
	3078: 3333, // Trinity Force
	3089: 3600, // Rabadon's Deathcap
	3094: 2600, // Rapid Firecannon
	3100: 3200, // Lich Bane
	3115: 3200, // Nashor's Tooth
	3142: 2900, // Youmuu's Ghostblade
	3152: 2600, // Hextech Rocketbelt
	3153: 3200, // Blade of the Ruined King
	3157: 2600, // Zhonya's Hourglass
	3165: 2200, // Morellonomicon
	3508: 3000, // Essence Reaver
	4628: 2800, // Horizon Focus
	4633: 2600, // Riftmaker
	6655: 3100, // Luden's Companion
	6672: 3000, // Kraken Slayer
	6673: 3100, // Immortal Shieldbow
	6692: 3100, // Eclipse
	6694: 3000, // Serylda's Grudge

	// Tank / support cores
	3001: 2500, // Evenshroud
	3065: 2900, // Spirit Visage
	3068: 2900, // Sunfire Aegis
	3075: 2300, // Thornmail
	3083: 3000, // Warmog's Armor
	3110: 2500, // Frozen Heart
	3190: 2300, // Locket of the Iron Solari
	3222: 2300, // Mikael's Blessing
	3504: 2300, // Ardent Censer

	// Consumables and wards
	2003: 50, // Health Potion
	2031: 500, // Refillable Potion
	2055: 75, // Control Ward
	3340: 0,  // Stealth Ward trinket
	3363: 0,  // Farsight Alteration
	3364: 0,  // Oracle Lens
}

const defaultItemGold = 250

// itemGold returns the gold value of an item purchase.
func itemGold(itemID int) int {
	if v, ok := itemGoldValues[itemID]; ok {
		return v
	}
	return defaultItemGold
}
