package params

// Canonical parameter store keys. Only this named set is adjustable at
// runtime; every other threshold is a fixed constant in its owning package.
const (
	KeyDailyBudget          = "settlement.dailyBudget"
	KeyBaseRewardPerMessage = "settlement.baseRewardPerMessage"
	KeyMinimumStakes        = "registry.minimumStakes"
)
