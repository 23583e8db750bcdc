package nakama

const (
	// ConfigPath is where the module reads its tuning, relative to the Nakama working directory.
	ConfigPath = "data/fish_config.json"

	// SystemUserID owns every game and lobby document. Empty means the Nakama system user.
	SystemUserID = ""

	// NotificationCodeUpdate tags realtime game and lobby updates. Codes <= 0 are reserved by Nakama.
	NotificationCodeUpdate = 100
)
