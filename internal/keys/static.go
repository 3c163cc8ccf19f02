package keys

// LegacyKeys is the key table bundled with the 8.4.0 standalone decryptor.
// It predates the remote feed and is therefore exempt from its version filter.
var LegacyKeys = map[string]string{
	"8.4.0_qa":    "j8Ssf/OuLHB7MDEGZ+60+4/B4CEy8W0MFU5P/3DJcKA=",
	"8.4.0_stage": "UrzY3zeokKxZKwylD5S/MqJitOLp+sPf57GUqFQTro0=",
	"8.4.0_cert":  "Hjf506fSULGcQrP1hAnYabBIBifbtkdKQkdAXR0WfjY=",
	"8.4.0_ptb":   "ovwdqi85Q9L+yanB1XAZiTNiORsaqJnDLQ4lWKcxfB0=",
	"8.4.0_live":  "7ftAaDtpMQxZtApVJeiORnu9ZCY9WtOiGOoJquhqsDg=",
}

// NewLegacySource возвращает StaticSource поверх LegacyKeys.
func NewLegacySource() *StaticSource {
	return NewStaticSource("legacy", LegacyKeys)
}
