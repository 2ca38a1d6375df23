package devenv

const AvanzaConfigFile = "avanza_config.json5"

// AvanzaTestConfig lives at <dev_state>/avanza_config.json5 and is only read
// by tests that talk to the live site.
type AvanzaTestConfig struct {
	BaseUrl   string `json:"base_url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	AccountId string `json:"account_id"`
}
