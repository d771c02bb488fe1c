// Package i18n holds the English/Russian message catalog for user-facing
// responses. Status codes and error kinds are language-independent; only
// the human-readable text is localized.
package i18n

// Message keys.
const (
	KeySenderNotFound     = "sender_not_found"
	KeyRecipientNotFound  = "recipient_not_found"
	KeySenderMismatch     = "sender_mismatch"
	KeyRecipientMismatch  = "recipient_mismatch"
	KeyMessageFieldsEmpty = "message_fields_empty"
	KeyMessageTooLong     = "message_too_long"
	KeyForbidden          = "forbidden"
	KeyUnauthorized       = "unauthorized"
	KeyInternal           = "internal"
	KeyMessageSent        = "message_sent"
	KeyMessagesReceived   = "messages_received"
)

var catalog = map[string]map[string]string{
	"en": {
		KeySenderNotFound:     "sender not found",
		KeyRecipientNotFound:  "recipient not found",
		KeySenderMismatch:     "sender nickname does not match",
		KeyRecipientMismatch:  "recipient nickname does not match",
		KeyMessageFieldsEmpty: "message data is missing or empty",
		KeyMessageTooLong:     "message must not exceed 255 characters",
		KeyForbidden:          "you may only act on your own behalf",
		KeyUnauthorized:       "invalid credentials",
		KeyInternal:           "internal server error",
		KeyMessageSent:        "message sent",
		KeyMessagesReceived:   "messages received",
	},
	"ru": {
		KeySenderNotFound:     "отправитель не найден",
		KeyRecipientNotFound:  "получатель не найден",
		KeySenderMismatch:     "никнейм отправителя не совпадает",
		KeyRecipientMismatch:  "никнейм получателя не совпадает",
		KeyMessageFieldsEmpty: "данные сообщения отсутствуют или пусты",
		KeyMessageTooLong:     "сообщение не должно превышать 255 символов",
		KeyForbidden:          "действие доступно только от своего имени",
		KeyUnauthorized:       "неверные учетные данные",
		KeyInternal:           "внутренняя ошибка сервера",
		KeyMessageSent:        "сообщение отправлено",
		KeyMessagesReceived:   "сообщения получены",
	},
}

// T returns the message for key in the given language, falling back to English
// for unknown languages or missing keys.
func T(lang, key string) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return catalog["en"][key]
}

// Normalize maps an arbitrary request-supplied language tag to a supported one.
func Normalize(lang string) string {
	if _, ok := catalog[lang]; ok {
		return lang
	}
	return "en"
}
