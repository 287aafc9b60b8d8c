package game

// Locations is the fixed set a round's secret location is drawn from.
var Locations = []string{
	"Airplane", "Bank", "Beach", "Casino", "Hospital",
	"Hotel", "Movie Theater", "Pirate Ship", "Restaurant",
	"School", "Space Station", "Submarine", "Supermarket", "Train",
}
