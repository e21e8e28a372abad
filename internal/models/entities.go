package models

import (
	"strconv"
	"strings"

	"github.com/myrjola/holocron/internal/format"
)

// Field is a labelled, already formatted value shown on a card.
type Field struct {
	Label string
	Value string
}

// Summary is implemented by every catalog entity so that hosts can present them without knowing the concrete type.
type Summary interface {
	DisplayName() string
	Fields() []Field
}

// IDFromURL returns the last non-empty path segment of url. Empty input resolves to "1".
func IDFromURL(url string) string {
	segments := strings.FieldsFunc(url, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "1"
	}
	return segments[len(segments)-1]
}

func idFromURL(url string) int {
	id, err := strconv.Atoi(IDFromURL(url))
	if err != nil {
		return 0
	}
	return id
}

// Character is a person of the Star Wars universe.
type Character struct {
	ID        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	BirthYear string `json:"birth_year"`
	Gender    string `json:"gender"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	HairColor string `json:"hair_color"`
	EyeColor  string `json:"eye_color"`
	SkinColor string `json:"skin_color"`
	URL       string `json:"url"`
}

// EntityID prefers the explicit id and falls back to the identifier embedded in the resource URL.
func (c Character) EntityID() int {
	if c.ID != 0 {
		return c.ID
	}
	return idFromURL(c.URL)
}

func (c Character) DisplayName() string {
	return c.Name
}

func (c Character) Fields() []Field {
	return []Field{
		{Label: "Birth Year", Value: c.BirthYear},
		{Label: "Gender", Value: c.Gender},
		{Label: "Height", Value: format.WithUnit(c.Height, "cm")},
		{Label: "Mass", Value: format.WithUnit(c.Mass, "kg")},
		{Label: "Hair Color", Value: c.HairColor},
		{Label: "Eye Color", Value: c.EyeColor},
	}
}

// DetailFields extends Fields with the attributes only shown on the character page.
func (c Character) DetailFields() []Field {
	return append(c.Fields(), Field{Label: "Skin Color", Value: c.SkinColor})
}

// Film is one episode of the saga.
type Film struct {
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episode_id"`
	OpeningCrawl string   `json:"opening_crawl"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"release_date"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	URL          string   `json:"url"`
}

// crawlExcerptLength is how much of the opening crawl the film card shows.
const crawlExcerptLength = 200

func (f Film) EntityID() int {
	return idFromURL(f.URL)
}

func (f Film) DisplayName() string {
	return f.Title
}

// Excerpt is the beginning of the opening crawl.
func (f Film) Excerpt() string {
	return format.Excerpt(f.OpeningCrawl, crawlExcerptLength)
}

func (f Film) Fields() []Field {
	return []Field{
		{Label: "Episode", Value: strconv.Itoa(f.EpisodeID)},
		{Label: "Director", Value: f.Director},
		{Label: "Producer", Value: f.Producer},
		{Label: "Release Date", Value: format.ReleaseDate(f.ReleaseDate)},
		{Label: "Characters", Value: format.Count(len(f.Characters), "character", "characters")},
		{Label: "Planets", Value: format.Count(len(f.Planets), "planet", "planets")},
		{Label: "Starships", Value: format.Count(len(f.Starships), "starship", "starships")},
	}
}

// Planet is a world of the galaxy.
type Planet struct {
	Name           string   `json:"name"`
	Climate        string   `json:"climate"`
	Terrain        string   `json:"terrain"`
	Population     string   `json:"population"`
	Diameter       string   `json:"diameter"`
	RotationPeriod string   `json:"rotation_period"`
	OrbitalPeriod  string   `json:"orbital_period"`
	Films          []string `json:"films"`
	Residents      []string `json:"residents"`
	URL            string   `json:"url"`
}

func (p Planet) EntityID() int {
	return idFromURL(p.URL)
}

func (p Planet) DisplayName() string {
	return p.Name
}

func (p Planet) Fields() []Field {
	return []Field{
		{Label: "Climate", Value: p.Climate},
		{Label: "Terrain", Value: p.Terrain},
		{Label: "Population", Value: format.Number(p.Population)},
		{Label: "Diameter", Value: format.WithUnit(p.Diameter, "km")},
		{Label: "Rotation Period", Value: format.WithUnit(p.RotationPeriod, "hours")},
		{Label: "Orbital Period", Value: format.WithUnit(p.OrbitalPeriod, "days")},
		{Label: "Films", Value: format.Count(len(p.Films), "film", "films")},
		{Label: "Residents", Value: format.Count(len(p.Residents), "resident", "residents")},
	}
}

// Starship is a hyperdrive capable vessel.
type Starship struct {
	Name                 string   `json:"name"`
	Model                string   `json:"model"`
	Manufacturer         string   `json:"manufacturer"`
	CostInCredits        string   `json:"cost_in_credits"`
	Length               string   `json:"length"`
	MaxAtmospheringSpeed string   `json:"max_atmosphering_speed"`
	Crew                 string   `json:"crew"`
	Passengers           string   `json:"passengers"`
	HyperdriveRating     string   `json:"hyperdrive_rating"`
	MGLT                 string   `json:"MGLT"`
	StarshipClass        string   `json:"starship_class"`
	Films                []string `json:"films"`
	Pilots               []string `json:"pilots"`
	URL                  string   `json:"url"`
}

func (s Starship) EntityID() int {
	return idFromURL(s.URL)
}

func (s Starship) DisplayName() string {
	return s.Name
}

func (s Starship) Fields() []Field {
	return []Field{
		{Label: "Class", Value: s.StarshipClass},
		{Label: "Model", Value: s.Model},
		{Label: "Manufacturer", Value: s.Manufacturer},
		{Label: "Cost", Value: format.Credits(s.CostInCredits)},
		{Label: "Length", Value: format.WithUnit(s.Length, "m")},
		{Label: "Max Speed", Value: s.MaxAtmospheringSpeed},
		{Label: "Crew", Value: s.Crew},
		{Label: "Passengers", Value: s.Passengers},
		{Label: "Hyperdrive Rating", Value: s.HyperdriveRating},
		{Label: "MGLT", Value: s.MGLT},
		{Label: "Films", Value: format.Count(len(s.Films), "film", "films")},
		{Label: "Pilots", Value: format.Count(len(s.Pilots), "pilot", "pilots")},
	}
}
