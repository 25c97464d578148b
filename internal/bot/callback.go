package bot

import (
	"strconv"
	"strings"
)

// Действия кнопок; данные имеют вид "действие:значение"
const (
	ActionBrand     = "brand"
	ActionCategory  = "category"
	ActionProduct   = "product"
	ActionSize      = "size"
	ActionQuantity  = "qty"
	ActionDate      = "date"
	ActionTime      = "time"
	ActionBack      = "back"
	ActionStartOver = "start_over"
	ActionDone      = "done"
)

// Цели кнопки "Назад"
const (
	BackStart    = "start"
	BackBrand    = "brand"
	BackCategory = "category"
	BackProduct  = "product"
)

func callbackData(action, value string) string {
	return action + ":" + value
}

// parseCallback делит только по первому двоеточию: "time:10:00" -> ("time", "10:00")
func parseCallback(data string) (action, value string) {
	action, value, _ = strings.Cut(data, ":")
	return action, value
}

func brandButton(brand string) Button {
	return Button{Text: brand, Data: callbackData(ActionBrand, brand)}
}

func categoryButton(category string) Button {
	return Button{Text: category, Data: callbackData(ActionCategory, category)}
}

func productButton(name string, index int) Button {
	return Button{Text: name, Data: callbackData(ActionProduct, strconv.Itoa(index))}
}

func backButton(target string) Button {
	return Button{Text: textBack, Data: callbackData(ActionBack, target)}
}
