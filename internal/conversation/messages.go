// internal/conversation/messages.go
package conversation

const msgRules = "Добро пожаловать на сервер! Перед началом регистрации прочитай правила:\n\n" +
	"Правила сервера Майнкрафт\n\n" +
	"Не гриферить (Под гриферством подразумевается разрушение любым способом чужих построек без разрешения, " +
	"заливание лавой, водой и т.п; убийство игроков без причины; убийство животных и/или мобов на фермах игроков)\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Не оскорблять игроков\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Запрещены политические темы (обсуждения, оскорбление символики, демонстрация оскорбительной символики)\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Запрещены читы (любого формата)\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Не воровать чужие вещи/животных\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Не строить огромные фермы и механизмы, которые очень сильно нагружают сервер и снижают tps\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Если игрок огородил СВОЮ территорию и/или поставил предупреждающую табличку, в которой написано " +
	"\"вход запрещён\", \"вход только ... \", то остальные игроки должны выполнять эти условия. " +
	"(только если это не нарушает границы других игроков)\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"Администратор имеет право не принять вашу заявку по причине оскорбляющего ника либо неадекватного поведения\n" +
	"────┈┈┈┄┄╌╌╌╌┄┄┈┈┈────\n" +
	"При отсутствии игрока более чем 3 месяца по неуважительной причине, его постройки будут приватизированы " +
	"(снесены/перестроены/достроены и так далее.)\n\n" +
	"Вы изучили правила сервера?"

const (
	btnRulesAccept  = "Да, согласен"
	btnRulesDecline = "Нет, не согласен"

	msgRulesAccepted = "Вы согласились с правилами. Сколько вам лет?"
	msgRulesDeclined = "Вы не согласились с правилами. Регистрация отменена. " +
		"Если вы передумаете, введите /start, чтобы попробовать снова."

	msgAskNickname = "Ваш игровой ник"

	msgSubmitted = "Спасибо за заполнение анкеты! 👍\n\n" +
		"Ваша заявка отправлена администраторам на рассмотрение. " +
		"Пожалуйста, ожидайте решения. Вы получите уведомление, когда заявка будет рассмотрена."

	msgCancelled = "Анкета отменена."

	msgSubmitFailed = "Произошла ошибка при обработке заявки. Пожалуйста, попробуйте позже."
)
