package review

// Reviewer-facing texts. Placeholders are filled with the applicant's answers
// and the reviewer roster names.
const (
	btnApprove = "✅ Одобрить"
	btnReject  = "❌ Отклонить"

	msgNewApplication = "Новая анкета:\n" +
		"Изучил правила: Да\n" +
		"Возраст: %s\n" +
		"Игровой ник: %s"

	msgAckApproved = "✅ Анкета игрока %s одобрена и добавлена в whitelist."
	msgAckRejected = "❌ Анкета игрока %s отклонена."

	msgPeerApproved = "%s ✅ одобрил анкету %s."
	msgPeerRejected = "%s ❌ отклонил анкету %s."

	msgStaleApproved = "Эта заявка уже была одобрена администратором %s."
	msgStaleRejected = "Эта заявка уже была отклонена администратором %s."
	msgStaleGeneric  = "Эта заявка уже была обработана."

	msgGrantFailed = "Ошибка при добавлении игрока %s в whitelist: %v"
)
