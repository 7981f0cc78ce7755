package mcp

// Tool names, parameters and the text the randomize tool publishes.
const (
	toolRandomize = "randomize"

	paramCategory = "category"
	paramCount    = "count"

	descRandomize = "Select random items from a category.\n\n" +
		"Use this tool to get truly random selections that break typical LLM output " +
		"patterns. Each call returns different results."
	descCategoryPrefix = "Category to select from. Available: "
	descCount          = "Number of items to select (no duplicates)"

	titleRandomize = "Random Selection"

	errCategoryRequired = "category is required"
	errCountInteger     = "count must be a whole number"
	errCountMinimum     = "count must be at least 1"
	errCountTooLarge    = "count is too large"
	errInternal         = "internal error while handling %s"
)
