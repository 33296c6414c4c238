package repoargs

type RepositoryName string

const (
	UserRepoName       RepositoryName = "user"
	ActivationRepoName RepositoryName = "activation"
	DepositRepoName    RepositoryName = "deposit"
	IntentRepoName     RepositoryName = "purchase_intent"
	SettingsRepoName   RepositoryName = "settings"
)

const SettingProfitPercent = "profit_percent"
