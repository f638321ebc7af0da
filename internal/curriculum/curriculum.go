// Package curriculum holds the static card catalog. The catalog is defined at
// startup and never changes for the process lifetime.
package curriculum

import "github.com/codemaplab/codemap/internal/models"

// Step groups cards under a curriculum step.
type Step struct {
	ID    string
	Title string
	Cards []StepCard
}

// StepCard is the per-step card definition before flattening.
type StepCard struct {
	ID        string
	Title     string
	BaseLevel int
	Text      string
	Allowed   []string
	Banned    []string
}

var steps = []Step{
	{
		ID:    "S1",
		Title: "파이썬 시작하기",
		Cards: []StepCard{
			{
				ID:        "S1-C1",
				Title:     "실행 흐름과 출력(print)",
				BaseLevel: 10,
				Text: "파이썬 코드는 위에서 아래로 실행됩니다.\n" +
					"print()는 화면에 글자를 출력합니다.\n" +
					"\n" +
					"예시:\n" +
					"print('A')\n" +
					"print('B')\n" +
					"→ 출력 순서는 A 다음 B 입니다.",
				Allowed: []string{"print", "실행 순서", "출력", "문자열"},
				Banned:  []string{"연산자 우선순위", "for", "if", "리스트", "딕셔너리"},
			},
			{
				ID:        "S1-C2",
				Title:     "입력(input)과 문자열",
				BaseLevel: 15,
				Text: "input()은 사용자의 입력을 받습니다.\n" +
					"input()의 결과는 항상 문자열(str)입니다.\n" +
					"\n" +
					"예시:\n" +
					"name = input('이름: ')\n" +
					"print(name)",
				Allowed: []string{"input", "print", "문자열", "변수(이름표 수준)"},
				Banned:  []string{"형변환 심화", "for", "if", "리스트", "딕셔너리"},
			},
		},
	},
	{
		ID:    "S2",
		Title: "변수와 자료형",
		Cards: []StepCard{
			{
				ID:        "S2-C1",
				Title:     "변수(이름표)와 대입",
				BaseLevel: 25,
				Text: "변수는 값을 저장하는 이름표입니다.\n" +
					"x = 3 처럼 '='는 값을 넣는(대입하는) 기호입니다.\n" +
					"\n" +
					"예시:\n" +
					"x = 3\n" +
					"print(x)",
				Allowed: []string{"변수", "대입", "print", "정수"},
				Banned:  []string{"for", "if 심화"},
			},
			{
				ID:        "S2-C2",
				Title:     "문자열과 숫자 차이",
				BaseLevel: 30,
				Text: "문자열 '3' 과 숫자 3은 다릅니다.\n" +
					"'3' + '4' 는 7이 아니라 '34'(문자열 결합)입니다.",
				Allowed: []string{"문자열", "숫자", "print", "결합"},
				Banned:  []string{"리스트", "딕셔너리", "for", "if 심화"},
			},
		},
	},
	{
		ID:    "S3",
		Title: "조건문",
		Cards: []StepCard{
			{
				ID:        "S3-C1",
				Title:     "if 기본과 비교(==)",
				BaseLevel: 45,
				Text: "if는 조건이 True일 때만 실행됩니다.\n" +
					"같다 비교는 '==' 를 씁니다.\n" +
					"주의: '=' 는 대입, '==' 는 비교입니다.",
				Allowed: []string{"if", "==", "대입", "변수", "print", "들여쓰기"},
				Banned:  []string{"elif", "논리연산 심화", "for"},
			},
		},
	},
	{
		ID:    "S4",
		Title: "반복문",
		Cards: []StepCard{
			{
				ID:        "S4-C1",
				Title:     "for와 range + 들여쓰기",
				BaseLevel: 60,
				Text: "for는 같은 작업을 여러 번 반복합니다.\n" +
					"range(3)은 0, 1, 2를 만듭니다.\n" +
					"\n" +
					"for i in range(3):\n" +
					"    print(i)",
				Allowed: []string{"for", "range", "print", "들여쓰기", "출력 순서"},
				Banned:  []string{"while", "break/continue", "리스트 컴프리헨션"},
			},
		},
	},
}

var flattened = flatten()

func flatten() []models.Card {
	var cards []models.Card
	for _, step := range steps {
		for _, c := range step.Cards {
			cards = append(cards, models.Card{
				StepID:    step.ID,
				StepTitle: step.Title,
				CardID:    c.ID,
				Title:     c.Title,
				BaseLevel: c.BaseLevel,
				Text:      c.Text,
				Allowed:   c.Allowed,
				Banned:    c.Banned,
			})
		}
	}
	return cards
}

// Cards returns all cards in declaration order.
func Cards() []models.Card {
	return flattened
}

// Count returns the number of cards in the catalog.
func Count() int {
	return len(flattened)
}

// ByIndex returns the card at index, clamped to catalog bounds.
func ByIndex(index int) models.Card {
	if index < 0 {
		index = 0
	}
	if index >= len(flattened) {
		index = len(flattened) - 1
	}
	return flattened[index]
}

// ByID looks up a card by its identifier.
func ByID(cardID string) (models.Card, bool) {
	for _, c := range flattened {
		if c.CardID == cardID {
			return c, true
		}
	}
	return models.Card{}, false
}

// ClampIndex clamps a card index into catalog bounds.
func ClampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(flattened) {
		return len(flattened) - 1
	}
	return index
}
