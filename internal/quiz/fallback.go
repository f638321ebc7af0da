package quiz

import (
	"strings"

	"github.com/codemaplab/codemap/internal/models"
)

// Fallback returns the canned question for a card, selected by substring
// match on the card title. Used whenever the model path is unavailable or
// produces unusable output.
func Fallback(card models.Card) models.Question {
	title := card.Title

	if strings.Contains(title, "print") {
		return models.Question{
			Question:    "다음 코드의 출력 순서는 무엇인가요?",
			Code:        "print('A')\nprint('B')",
			Choices:     []string{"A 다음 B", "B 다음 A", "순서 보장 안 됨"},
			AnswerIndex: 0,
			Explanation: "파이썬은 위에서 아래로 실행되므로 A 다음 B입니다.",
		}
	}
	if strings.Contains(title, "input") {
		return models.Question{
			Question:    "input() 결과의 자료형은?",
			Code:        "name = input('이름: ')\nprint(name)",
			Choices:     []string{"str", "int", "float"},
			AnswerIndex: 0,
			Explanation: "input()은 항상 문자열(str)을 반환합니다.",
		}
	}
	if strings.Contains(title, "if") {
		return models.Question{
			Question:    "같다 비교에 쓰는 기호는?",
			Code:        "if x == 3:\n    print('같다')",
			Choices:     []string{"=", "==", "=>"},
			AnswerIndex: 1,
			Explanation: "== 는 비교, = 는 대입입니다.",
		}
	}
	if strings.Contains(title, "for") || strings.Contains(title, "range") {
		return models.Question{
			Question:    "for i in range(3) 출력 결과는?",
			Code:        "for i in range(3):\n    print(i)",
			Choices:     []string{"0,1,2", "1,2,3", "0,1,2,3"},
			AnswerIndex: 0,
			Explanation: "range(3)은 0,1,2를 만듭니다.",
		}
	}

	return models.Question{
		Question:    "이 카드의 핵심은 무엇인가요?",
		Choices:     []string{"카드 범위 내 학습", "아무거나 출제"},
		AnswerIndex: 0,
		Explanation: "문제는 카드 범위에서 나옵니다.",
	}
}
