/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"math/rand/v2"
	"strings"
)

// Placeholders understood by FormatQuestion.
const (
	placeholderHotSeat    = "{hotSeat}"
	placeholderPossessive = "{hotSeatPossessive}"
	placeholderOther      = "{otherPlayer}"
)

// DefaultQuestions is the built-in question bank.
var DefaultQuestions = []string{
	"What is a surprising fact about {hotSeat} that most people don't know?",
	"If {hotSeat} had to eat one meal for the rest of their life, what would it be?",
	"What is {hotSeatPossessive} most irrational fear?",
	"If {hotSeat} could instantly learn any skill, what would it be?",
	"What was {hotSeatPossessive} most embarrassing moment in school?",
	"Which fictional character does {hotSeat} relate to the most?",
	"What guilty pleasure song does {hotSeat} know by heart?",
	"Where would {hotSeat} travel if money and time were no issue?",
	"What is the best prank {hotSeat} has ever pulled off?",
	"If {hotSeat} could swap lives with someone for a day, who would it be?",
	"What would {hotSeat} do first if they woke up as {otherPlayer}?",
	"What is {hotSeatPossessive} go-to karaoke song?",
	"What was {hotSeatPossessive} first job?",
	"What would {hotSeatPossessive} autobiography be called?",
	"What is the weirdest thing {hotSeat} has ever eaten?",
	"What does {hotSeat} secretly think {otherPlayer} is best at?",
	"What is {hotSeatPossessive} most used emoji?",
	"Which celebrity would {hotSeat} most like to have dinner with?",
	"What is the worst gift {hotSeat} has ever received?",
	"What hobby did {hotSeat} pick up and abandon the fastest?",
	"What would {hotSeat} name a pet goldfish?",
	"What is {hotSeatPossessive} hottest take about pizza toppings?",
	"What is the longest {hotSeat} has ever gone without sleep, and why?",
	"What would {hotSeat} bring to a desert island besides food and water?",
	"Which movie has {hotSeat} watched more times than they would admit?",
	"What is {hotSeatPossessive} dream job if pay did not matter?",
	"What app does {hotSeat} spend way too much time on?",
	"What would {hotSeat} and {otherPlayer} argue about on a road trip?",
	"What childhood toy does {hotSeat} still miss?",
	"What is the most useless talent {hotSeat} has?",
	"What is {hotSeatPossessive} least favorite chore?",
	"If {hotSeat} opened a restaurant, what would it serve?",
	"What smell instantly takes {hotSeat} back to childhood?",
	"What would {hotSeatPossessive} superhero name be?",
	"What is {hotSeatPossessive} biggest pet peeve?",
	"What rule did {hotSeat} break most often as a kid?",
	"What would {hotSeat} buy first after winning the lottery?",
	"What is the strangest thing {hotSeat} believed as a child?",
	"Which decade would {hotSeat} live in if they could choose?",
	"What does {hotSeat} always order at a coffee shop?",
}

// Deck deals question templates without repeats until the bank is exhausted,
// then reshuffles a fresh copy.
type Deck struct {
	bank  []string
	cards []string
}

func NewDeck(bank []string) *Deck {
	d := &Deck{bank: append([]string(nil), bank...)}
	d.reshuffle()

	return d
}

func (d *Deck) reshuffle() {
	d.cards = append(d.cards[:0], d.bank...)
	shuffle(d.cards)
}

// Remaining reports how many templates are left before the next reshuffle.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Draw pops the next template.
func (d *Deck) Draw() string {
	if len(d.cards) == 0 {
		d.reshuffle()
	}
	if len(d.cards) == 0 {
		return "Mystery question"
	}

	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]

	return card
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle[T any](s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Possessive returns "name's", or "name'" when the name already ends in s.
func Possessive(name string) string {
	if strings.HasSuffix(strings.ToLower(name), "s") {
		return name + "'"
	}

	return name + "'s"
}

// FormatQuestion fills the placeholders of a template. An empty hot seat
// name leaves the template untouched.
func FormatQuestion(template, hotSeatName, otherName string) string {
	name := strings.TrimSpace(hotSeatName)
	if name == "" {
		return template
	}

	other := strings.TrimSpace(otherName)
	if other == "" {
		other = "someone"
	}

	return strings.NewReplacer(
		placeholderPossessive, Possessive(name),
		placeholderHotSeat, name,
		placeholderOther, other,
	).Replace(template)
}

// drawQuestion pops the next template off the room's deck and formats it for
// the hot seat, naming a random other connected player where asked.
func drawQuestion(r *room, hotSeat *Player) string {
	template := r.deck.Draw()
	if hotSeat == nil {
		return template
	}

	var others []string
	for _, p := range r.players {
		if p.connected() && p.ID != hotSeat.ID {
			others = append(others, p.Name)
		}
	}

	other := ""
	if len(others) > 0 {
		other = others[rand.IntN(len(others))]
	}

	return FormatQuestion(template, hotSeat.Name, other)
}
