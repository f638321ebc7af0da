package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_ActionSweep(t *testing.T) {
	winner, totals := Score(Answers{
		Tone:   "짜릿하고 강렬한",
		Pace:   "빠르게 몰아치는",
		Vibe:   "아드레날린",
		Ending: "통쾌한",
	})

	assert.Equal(t, "액션", winner.Name)
	assert.Equal(t, 28, winner.TMDBID)
	assert.Equal(t, 12, totals["액션"])
	assert.Greater(t, totals["액션"], totals["스릴러"])
}

func TestScore_Romance(t *testing.T) {
	winner, totals := Score(Answers{
		Tone:   "따뜻하고 잔잔한",
		Pace:   "천천히 스며드는",
		Vibe:   "설렘",
		Ending: "해피엔딩",
	})

	assert.Equal(t, "로맨스", winner.Name)
	assert.Equal(t, 10749, winner.TMDBID)
	assert.Greater(t, totals["로맨스"], totals["드라마"])
}

func TestScore_Thriller(t *testing.T) {
	winner, _ := Score(Answers{
		Tone:   "신비롭고 낯선",
		Pace:   "긴장을 조여오는",
		Vibe:   "소름",
		Ending: "반전",
	})

	assert.Equal(t, "스릴러", winner.Name)
}

func TestScore_UnknownAnswersFallToPriority(t *testing.T) {
	// Nothing scores, so the first genre in priority order wins at zero.
	winner, totals := Score(Answers{Tone: "없는 답", Pace: "x", Vibe: "y", Ending: "z"})
	assert.Equal(t, "액션", winner.Name)
	for _, total := range totals {
		assert.Zero(t, total)
	}
}

func TestScore_TieBreakUsesPriorityOrder(t *testing.T) {
	// 코미디 and 로맨스 both reach 4; 코미디 comes first in priority.
	winner, totals := Score(Answers{
		Tone: "유쾌하고 가벼운", // 코미디 3, 로맨스 1
		Vibe: "설렘",       // 로맨스 3, 코미디 1
	})
	assert.Equal(t, totals["코미디"], totals["로맨스"])
	assert.Equal(t, "코미디", winner.Name)
}

func TestGenres_PriorityOrderStable(t *testing.T) {
	genres := Genres()
	assert.Len(t, genres, 6)
	assert.Equal(t, "액션", genres[0].Name)
	assert.Equal(t, "SF", genres[5].Name)
}

func TestQuestions_ChoicesAllScore(t *testing.T) {
	for _, q := range Questions() {
		assert.NotEmpty(t, q.Prompt)
		assert.Len(t, q.Choices, 4)
		for _, choice := range q.Choices {
			assert.Contains(t, scoreTable, choice, "choice %q has no score entry", choice)
		}
	}
}
