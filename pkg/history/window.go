// Package history реализует обрезку истории диалога под символьный бюджет.
//
// Провайдер тарифицирует токены, а хост присылает историю целиком,
// поэтому перед запросом отбрасываем самые старые ходы, пока суммарная
// длина текста не влезет в бюджет. Вложения в бюджете не учитываются —
// их размер ограничивается отдельно на этапе композиции.
package history

import "github.com/gethubai/openai-brain/pkg/hubai"

// Window возвращает суффикс ходов, укладывающийся в maxChars символов.
//
// Правила:
//  1. Две реплики и меньше возвращаются как есть — минимальный рабочий
//     контекст не урезаем независимо от бюджета.
//  2. Пока суммарная длина текстов превышает бюджет и остаётся больше
//     одного хода — отбрасываем самый старый.
//  3. Результат никогда не пуст: последний ход остаётся даже если он
//     сам по себе длиннее бюджета.
//
// Входной срез не изменяется, возвращается его подсрез.
func Window(turns []hubai.ConversationTurn, maxChars int) []hubai.ConversationTurn {
	if len(turns) <= 2 {
		return turns
	}

	total := 0
	for _, t := range turns {
		total += len(t.Message)
	}

	start := 0
	for total > maxChars && len(turns)-start > 1 {
		total -= len(turns[start].Message)
		start++
	}

	return turns[start:]
}

// HasImages сообщает, есть ли среди ходов хотя бы одно вложение-изображение.
// Используется для принудительного выбора vision-модели.
func HasImages(turns []hubai.ConversationTurn) bool {
	for _, t := range turns {
		for _, a := range t.Attachments {
			if a.IsImage() {
				return true
			}
		}
	}
	return false
}
