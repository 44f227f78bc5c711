package chat

import "strings"

var apologies = map[string]string{
	"english": "Oops! Looks like I couldn't quite cook up a response for that. Could you try rephrasing your question, please? 🥺",
	"yoruba":  "Ah, oya! Ó dàbí pé mi ò lè dáhùn ìyẹn. Jọ̀wọ́, ẹ tún ìbéèrè yín ṣe? 🥺",
	"igbo":    "Chai! O dị ka enweghị m ike ịza ajụjụ ahụ. Biko, gbanwee ụzọ ị jụrụ ya? 🥺",
	"hausa":   "Kash! Da alama ban samu damar ba da amsa ba. Don Allah, sake faɗin tambayar taka? 🥺",
	"pidgin":  "Ah-ahn! E be like say I no fit answer dat one. Abeg, try ask am anoda way? 🥺",
}

const defaultApology = "🤖 FoodieBot couldn't generate a reply. Try rephrasing your input."

var degraded = map[string]string{
	"english": "🖥️ Our kitchen server is temporarily down. Please try again in a moment ✨",
	"yoruba":  "🖥️ Ẹ̀rọ wa kò ṣiṣẹ́ fún ìgbà díẹ̀. Ẹ jọ̀wọ́, ẹ tún gbìyànjú láìpẹ́ ✨",
	"igbo":    "🖥️ Sava anyị adịghị arụ ọrụ nwa oge. Biko, nwaa ọzọ n'oge na-adịghị anya ✨",
	"hausa":   "🖥️ Sabar mu ba ta aiki na ɗan lokaci. Don Allah, sake gwadawa nan ba da jimawa ba ✨",
	"pidgin":  "🖥️ Our server don hold body small. Abeg, try again small time ✨",
}

// Apology is the reply used when the model gives nothing usable.
func Apology(language string) string {
	if msg, ok := apologies[strings.ToLower(strings.TrimSpace(language))]; ok {
		return msg
	}
	return defaultApology
}

// Degraded is the reply used when the model or the backend is unreachable.
func Degraded(language string) string {
	if msg, ok := degraded[strings.ToLower(strings.TrimSpace(language))]; ok {
		return msg
	}
	return degraded["english"]
}
