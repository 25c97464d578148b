package bot

const (
	textWelcome        = "Привет! 👋\nВыбери бренд:"
	textChooseCategory = "Бренд: %s\nТеперь выбери категорию:"
	textChooseProduct  = "Категория: %s\nВыбери товар:"
	textProductCard    = "🛍️ %s\n💰 %s\n📦 Остаток: %d"
	textChooseQuantity = "Выбран размер %s. Сколько штук?"
	textChooseDate     = "Выбери дату получения:"
	textChooseTime     = "Выбери удобное время:"
	textRequestContact = "Оставьте контакт для оформления заказа:"
	textOrderAccepted  = "✅ Спасибо! Ваш заказ принят."
	textWhatNext       = "Что хотите сделать дальше?"
	textGoodbye        = "Хорошо, обращайтесь, если что-то понадобится 😊"
	textBack           = "⬅️ Назад"
	textStartOver      = "🔄 Сделать новый заказ"
	textFinish         = "❌ Завершить"
	textNoBrands       = "Каталог пока пуст, загляните позже."
	textNoProducts     = "В этой категории пока нет товаров."
	textOutOfStock     = "\n\nНет в наличии."

	textErrNoBrand     = "Ошибка: бренд не выбран."
	textErrNoCategory  = "Ошибка: категория не выбрана."
	textErrNoProduct   = "Ошибка: товар не выбран."
	textErrNoSize      = "Ошибка: размер не выбран."
	textErrNoQuantity  = "Ошибка: количество не выбрано."
	textErrNoDate      = "Ошибка: дата не выбрана."
	textErrNoTime      = "Ошибка: время не выбрано."
	textErrProductGone = "Товар не найден, выберите из списка заново."
	textErrSizeGone    = "Этого размера нет в наличии."
	textErrQuantity    = "Столько штук нет в наличии."
	textErrDate        = "Ошибка: некорректная дата."
	textErrTime        = "Ошибка: некорректное время."
	textErrIncomplete  = "Ошибка: заказ не собран, начните заново /start."
	textErrUnavailable = "Сервис временно недоступен, попробуйте позже."
	textErrPrice       = "Не удалось рассчитать стоимость заказа."
)

// ShareContactText подпись кнопки запроса контакта
const ShareContactText = "Отправить контакт ☎️"
