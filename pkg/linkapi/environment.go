package linkapi

// Environment of the bank-data API.
type Environment int

const (
	EnvironmentSandbox Environment = iota
	EnvironmentDevelopment
	EnvironmentProduction
)

func NewEnvironment(s string) Environment {
	switch s {
	case "sandbox", "":
		return EnvironmentSandbox
	case "development":
		return EnvironmentDevelopment
	case "production":
		return EnvironmentProduction
	default:
		return EnvironmentSandbox
	}
}

// BaseURLs of the different environments
const (
	BaseURLSandbox     string = "https://sandbox.plaid.com"
	BaseURLDevelopment string = "https://development.plaid.com"
	BaseURLProduction  string = "https://production.plaid.com"
)

func (e Environment) BaseURL() string {
	switch e {
	case EnvironmentSandbox:
		return BaseURLSandbox
	case EnvironmentDevelopment:
		return BaseURLDevelopment
	case EnvironmentProduction:
		return BaseURLProduction
	default:
		return BaseURLSandbox
	}
}

func (e Environment) String() string {
	switch e {
	case EnvironmentSandbox:
		return "sandbox"
	case EnvironmentDevelopment:
		return "development"
	case EnvironmentProduction:
		return "production"
	default:
		return "unknown"
	}
}
