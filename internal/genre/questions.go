package genre

// QuizQuestion is one of the four quiz questions with its fixed choices.
type QuizQuestion struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

var questions = []QuizQuestion{
	{
		Key:     "tone",
		Prompt:  "어떤 분위기의 영화가 끌리나요?",
		Choices: []string{"짜릿하고 강렬한", "따뜻하고 잔잔한", "유쾌하고 가벼운", "신비롭고 낯선"},
	},
	{
		Key:     "pace",
		Prompt:  "어떤 전개를 좋아하나요?",
		Choices: []string{"빠르게 몰아치는", "천천히 스며드는", "티키타카 주고받는", "긴장을 조여오는"},
	},
	{
		Key:     "vibe",
		Prompt:  "영화를 보고 나면 어떤 감정이 남길 원하나요?",
		Choices: []string{"아드레날린", "설렘", "눈물", "소름"},
	},
	{
		Key:     "ending",
		Prompt:  "어떤 결말을 선호하나요?",
		Choices: []string{"통쾌한", "여운이 남는", "해피엔딩", "반전"},
	},
}

// Questions returns the four quiz questions in presentation order.
func Questions() []QuizQuestion {
	return questions
}
