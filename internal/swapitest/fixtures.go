package swapitest

import "github.com/myrjola/holocron/internal/models"

const base = "https://swapi.example/api"

var films = []models.Film{
	{
		Title: "A New Hope", EpisodeID: 4,
		OpeningCrawl: "It is a period of civil war. Rebel spaceships, striking from a hidden base, have won their " +
			"first victory against the evil Galactic Empire. During the battle, Rebel spies managed to steal secret " +
			"plans to the Empire's ultimate weapon, the DEATH STAR.",
		Director: "George Lucas", Producer: "Gary Kurtz, Rick McCallum", ReleaseDate: "1977-05-25",
		Characters: []string{base + "/people/1/", base + "/people/2/", base + "/people/3/", base + "/people/4/"},
		Planets:    []string{base + "/planets/1/", base + "/planets/2/", base + "/planets/3/"},
		Starships:  []string{base + "/starships/2/", base + "/starships/3/", base + "/starships/5/"},
		URL:        base + "/films/1/",
	},
	{
		Title: "The Empire Strikes Back", EpisodeID: 5,
		OpeningCrawl: "It is a dark time for the Rebellion. Although the Death Star has been destroyed, " +
			"Imperial troops have driven the Rebel forces from their hidden base.",
		Director: "Irvin Kershner", Producer: "Gary Kurtz, Rick McCallum", ReleaseDate: "1980-05-17",
		Characters: []string{base + "/people/1/", base + "/people/5/"},
		Planets:    []string{base + "/planets/4/", base + "/planets/5/"},
		Starships:  []string{base + "/starships/3/"},
		URL:        base + "/films/2/",
	},
	{
		Title: "Return of the Jedi", EpisodeID: 6,
		OpeningCrawl: "Luke Skywalker has returned to his home planet of Tatooine in an attempt to rescue his " +
			"friend Han Solo from the clutches of the vile gangster Jabba the Hutt.",
		Director: "Richard Marquand", Producer: "Howard G. Kazanjian, George Lucas, Rick McCallum",
		ReleaseDate: "1983-05-25",
		Characters:  []string{base + "/people/1/"},
		Planets:     []string{base + "/planets/1/"},
		Starships:   []string{base + "/starships/2/"},
		URL:         base + "/films/3/",
	},
	{
		Title: "The Phantom Menace", EpisodeID: 1,
		OpeningCrawl: "Turmoil has engulfed the Galactic Republic.",
		Director:     "George Lucas", Producer: "Rick McCallum", ReleaseDate: "1999-05-19",
		URL: base + "/films/4/",
	},
}

var characters = []models.Character{
	{ID: 1, Name: "Luke Skywalker", BirthYear: "19BBY", Gender: "male", Height: "172", Mass: "77",
		HairColor: "blond", EyeColor: "blue", SkinColor: "fair", URL: base + "/people/1/"},
	{ID: 2, Name: "C-3PO", BirthYear: "112BBY", Gender: "n/a", Height: "167", Mass: "75",
		HairColor: "n/a", EyeColor: "yellow", SkinColor: "gold", URL: base + "/people/2/"},
	{ID: 3, Name: "R2-D2", BirthYear: "33BBY", Gender: "n/a", Height: "96", Mass: "32",
		HairColor: "n/a", EyeColor: "red", SkinColor: "white, blue", URL: base + "/people/3/"},
	{ID: 4, Name: "Darth Vader", BirthYear: "41.9BBY", Gender: "male", Height: "202", Mass: "136",
		HairColor: "none", EyeColor: "yellow", SkinColor: "white", URL: base + "/people/4/"},
	{ID: 5, Name: "Leia Organa", BirthYear: "19BBY", Gender: "female", Height: "150", Mass: "49",
		HairColor: "brown", EyeColor: "brown", SkinColor: "light", URL: base + "/people/5/"},
	{ID: 6, Name: "Owen Lars", BirthYear: "52BBY", Gender: "male", Height: "178", Mass: "120",
		HairColor: "brown, grey", EyeColor: "blue", SkinColor: "light", URL: base + "/people/6/"},
	{ID: 7, Name: "Beru Whitesun lars", BirthYear: "47BBY", Gender: "female", Height: "165", Mass: "75",
		HairColor: "brown", EyeColor: "blue", SkinColor: "light", URL: base + "/people/7/"},
	{ID: 8, Name: "R5-D4", BirthYear: "unknown", Gender: "n/a", Height: "97", Mass: "32",
		HairColor: "n/a", EyeColor: "red", SkinColor: "white, red", URL: base + "/people/8/"},
	{ID: 9, Name: "Biggs Darklighter", BirthYear: "24BBY", Gender: "male", Height: "183", Mass: "84",
		HairColor: "black", EyeColor: "brown", SkinColor: "light", URL: base + "/people/9/"},
	{ID: 10, Name: "Obi-Wan Kenobi", BirthYear: "57BBY", Gender: "male", Height: "182", Mass: "77",
		HairColor: "auburn, white", EyeColor: "blue-gray", SkinColor: "fair", URL: base + "/people/10/"},
	{ID: 11, Name: "Anakin Skywalker", BirthYear: "41.9BBY", Gender: "male", Height: "188", Mass: "84",
		HairColor: "blond", EyeColor: "blue", SkinColor: "fair", URL: base + "/people/11/"},
	{ID: 12, Name: "Wilhuff Tarkin", BirthYear: "64BBY", Gender: "male", Height: "180", Mass: "unknown",
		HairColor: "auburn, grey", EyeColor: "blue", SkinColor: "fair", URL: base + "/people/12/"},
}

var planets = []models.Planet{
	{Name: "Tatooine", Climate: "arid", Terrain: "desert", Population: "200000", Diameter: "10465",
		RotationPeriod: "23", OrbitalPeriod: "304",
		Films: []string{base + "/films/1/", base + "/films/3/"}, Residents: []string{base + "/people/1/"},
		URL: base + "/planets/1/"},
	{Name: "Alderaan", Climate: "temperate", Terrain: "grasslands, mountains", Population: "2000000000",
		Diameter: "12500", RotationPeriod: "24", OrbitalPeriod: "364",
		Films: []string{base + "/films/1/"}, Residents: []string{base + "/people/5/"}, URL: base + "/planets/2/"},
	{Name: "Yavin IV", Climate: "temperate, tropical", Terrain: "jungle, rainforests", Population: "1000",
		Diameter: "10200", RotationPeriod: "24", OrbitalPeriod: "4818",
		Films: []string{base + "/films/1/"}, URL: base + "/planets/3/"},
	{Name: "Hoth", Climate: "frozen", Terrain: "tundra, ice caves, mountain ranges", Population: "unknown",
		Diameter: "7200", RotationPeriod: "23", OrbitalPeriod: "549",
		Films: []string{base + "/films/2/"}, URL: base + "/planets/4/"},
	{Name: "Dagobah", Climate: "murky", Terrain: "swamp, jungles", Population: "unknown",
		Diameter: "8900", RotationPeriod: "23", OrbitalPeriod: "341",
		Films: []string{base + "/films/2/"}, URL: base + "/planets/5/"},
}

var starships = []models.Starship{
	{Name: "CR90 corvette", Model: "CR90 corvette", Manufacturer: "Corellian Engineering Corporation",
		CostInCredits: "3500000", Length: "150", MaxAtmospheringSpeed: "950", Crew: "30-165", Passengers: "600",
		HyperdriveRating: "2.0", MGLT: "60", StarshipClass: "corvette",
		Films: []string{base + "/films/1/"}, URL: base + "/starships/2/"},
	{Name: "Star Destroyer", Model: "Imperial I-class Star Destroyer", Manufacturer: "Kuat Drive Yards",
		CostInCredits: "150000000", Length: "1,600", MaxAtmospheringSpeed: "975", Crew: "47,060",
		Passengers: "n/a", HyperdriveRating: "2.0", MGLT: "60", StarshipClass: "Star Destroyer",
		Films: []string{base + "/films/1/", base + "/films/2/"}, URL: base + "/starships/3/"},
	{Name: "Millennium Falcon", Model: "YT-1300 light freighter", Manufacturer: "Corellian Engineering Corporation",
		CostInCredits: "100000", Length: "34.37", MaxAtmospheringSpeed: "1050", Crew: "4", Passengers: "6",
		HyperdriveRating: "0.5", MGLT: "75", StarshipClass: "Light freighter",
		Films: []string{base + "/films/1/"}, Pilots: []string{base + "/people/13/", base + "/people/14/"},
		URL: base + "/starships/10/"},
	{Name: "X-wing", Model: "T-65 X-wing", Manufacturer: "Incom Corporation",
		CostInCredits: "149999", Length: "12.5", MaxAtmospheringSpeed: "1050", Crew: "1", Passengers: "0",
		HyperdriveRating: "1.0", MGLT: "100", StarshipClass: "Starfighter",
		Films: []string{base + "/films/1/"}, Pilots: []string{base + "/people/1/"}, URL: base + "/starships/12/"},
	{Name: "Death Star", Model: "DS-1 Orbital Battle Station", Manufacturer: "Imperial Department of Military Research",
		CostInCredits: "1000000000000", Length: "120000", MaxAtmospheringSpeed: "n/a", Crew: "342,953",
		Passengers: "843,342", HyperdriveRating: "4.0", MGLT: "10", StarshipClass: "Deep Space Mobile Battlestation",
		Films: []string{base + "/films/1/"}, URL: base + "/starships/9/"},
	{Name: "Slave 1", Model: "Firespray-31-class patrol and attack", Manufacturer: "Kuat Systems Engineering",
		CostInCredits: "unknown", Length: "21.5", MaxAtmospheringSpeed: "1000", Crew: "1", Passengers: "6",
		HyperdriveRating: "3.0", MGLT: "70", StarshipClass: "Patrol craft",
		Films: []string{base + "/films/2/"}, URL: base + "/starships/21/"},
}
