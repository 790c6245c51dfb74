package models

// Maps is the canonical list of battle-royale maps. The join session falls
// back through this list when its randomly selected map has no open games.
var Maps = []string{
	"Green Grasslands", "Dirty Desert", "Urban Underground", "Juicy Jungle", "Open Ocean",
	"Mystic Mountains", "Frozen Frontier", "Volcanic Valley", "Haunted Hills", "Sunny Shores",
	"Cosmic Crater", "Ancient Ruins", "Neon City", "Foggy Forest", "Crystal Caves",
	"Burning Badlands", "Stormy Skies", "Toxic Tundra", "Peaceful Peaks", "Deadly Dunes",
	"Lava Lakes", "Windy Wasteland", "Tropical Treetops", "Icy Islands", "Murky Marshes",
	"Savage Savannah", "Radiant Reef", "Dusty Docks", "Phantom Fortress", "Bamboo Basin",
	"Crimson Canyon", "Emerald Estuary", "Golden Gorge", "Hidden Harbor", "Ivory Isle",
	"Jade Jungle", "Karst Kingdom", "Lunar Landscape", "Midnight Meadow", "Nebula Nexus",
	"Obsidian Outpost", "Prismatic Plains", "Quantum Quarry", "Ruby Ridge", "Sapphire Springs",
	"Twilight Temple", "Umbra Uplands", "Verdant Valley", "Whispering Woods", "Xenon Xanadu",
}
