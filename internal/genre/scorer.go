// Package genre scores movie-quiz answers into a genre with a fixed
// point table. Purely deterministic lookup-and-sum.
package genre

// Genre is one of the six scored genres.
type Genre struct {
	Name   string
	TMDBID int
}

// The six genres in tie-break priority order: when totals tie, the genre
// listed first wins. The ordering is a given constant.
var priority = []Genre{
	{Name: "액션", TMDBID: 28},
	{Name: "코미디", TMDBID: 35},
	{Name: "드라마", TMDBID: 18},
	{Name: "로맨스", TMDBID: 10749},
	{Name: "스릴러", TMDBID: 53},
	{Name: "SF", TMDBID: 878},
}

// Genres returns the scored genres in priority order.
func Genres() []Genre {
	return priority
}

// Answers holds the user's pick for each of the four quiz questions.
type Answers struct {
	Tone   string `json:"tone"`
	Pace   string `json:"pace"`
	Vibe   string `json:"vibe"`
	Ending string `json:"ending"`
}

type award struct {
	genre  string
	points int
}

// Point table mapping each answer to additive genre scores. Unknown answers
// contribute nothing.
var scoreTable = map[string][]award{
	// tone
	"짜릿하고 강렬한": {{"액션", 3}, {"스릴러", 1}},
	"따뜻하고 잔잔한": {{"드라마", 3}, {"로맨스", 1}},
	"유쾌하고 가벼운": {{"코미디", 3}, {"로맨스", 1}},
	"신비롭고 낯선":  {{"SF", 3}, {"스릴러", 1}},

	// pace
	"빠르게 몰아치는":  {{"액션", 3}, {"스릴러", 1}},
	"천천히 스며드는":  {{"드라마", 3}, {"로맨스", 1}},
	"티키타카 주고받는": {{"코미디", 3}},
	"긴장을 조여오는":  {{"스릴러", 3}, {"SF", 1}},

	// vibe
	"아드레날린": {{"액션", 3}},
	"설렘":    {{"로맨스", 3}, {"코미디", 1}},
	"눈물":    {{"드라마", 3}},
	"소름":    {{"스릴러", 3}, {"SF", 1}},

	// ending
	"통쾌한":    {{"액션", 3}, {"코미디", 1}},
	"여운이 남는": {{"드라마", 3}, {"로맨스", 1}},
	"해피엔딩":   {{"로맨스", 3}, {"코미디", 1}},
	"반전":     {{"스릴러", 3}, {"SF", 1}},
}

// Score sums the point table over the four answers and returns the winning
// genre plus the per-genre totals. Ties are broken by priority order.
func Score(answers Answers) (Genre, map[string]int) {
	totals := make(map[string]int, len(priority))
	for _, g := range priority {
		totals[g.Name] = 0
	}

	for _, answer := range []string{answers.Tone, answers.Pace, answers.Vibe, answers.Ending} {
		for _, aw := range scoreTable[answer] {
			totals[aw.genre] += aw.points
		}
	}

	winner := priority[0]
	best := totals[winner.Name]
	for _, g := range priority[1:] {
		if totals[g.Name] > best {
			winner = g
			best = totals[g.Name]
		}
	}
	return winner, totals
}
