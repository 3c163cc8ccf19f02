package testutil

// Fixtures содержит общие тестовые ключи, чтобы не дублировать их в тестах.
var Fixtures = struct {
	// AES-256 ключ: base64 от байтов 0x00..0x1f
	KeyMaterial string

	// Версионный идентификатор ключа в формате feed
	KeyID string

	// Ключ, который валиден по длине, но не совпадает с KeyMaterial
	WrongKeyMaterial string
}{
	KeyMaterial:      "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=",
	KeyID:            "9.3.0_live",
	WrongKeyMaterial: "a2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2s=",
}
