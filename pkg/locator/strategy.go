package locator

import "strings"

// W3C / Appium locator strategies.
const (
	StrategyAccessibilityID = "accessibility id"
	StrategyUiAutomator     = "-android uiautomator"
	StrategyPredicate       = "-ios predicate string"
	StrategyClassChain      = "-ios class chain"
	StrategyXPath           = "xpath"
	StrategyID              = "id"
)

// Strategy is a selector split into the W3C find-element request fields.
type Strategy struct {
	Using string
	Value string
}

// ParseSelector converts a selector string into a find strategy.
//
//	~id                          accessibility id
//	android=<expr>               -android uiautomator
//	-ios predicate string:<p>    -ios predicate string
//	-ios class chain:<c>         -ios class chain
//	//node or (//node)[1]        xpath
//	id=<id> or anything else     id
func ParseSelector(selector string) Strategy {
	switch {
	case strings.HasPrefix(selector, PrefixAccessibilityID):
		return Strategy{Using: StrategyAccessibilityID, Value: strings.TrimPrefix(selector, PrefixAccessibilityID)}
	case strings.HasPrefix(selector, PrefixAndroid):
		return Strategy{Using: StrategyUiAutomator, Value: strings.TrimPrefix(selector, PrefixAndroid)}
	case strings.HasPrefix(selector, PrefixPredicate):
		return Strategy{Using: StrategyPredicate, Value: strings.TrimPrefix(selector, PrefixPredicate)}
	case strings.HasPrefix(selector, PrefixClassChain):
		return Strategy{Using: StrategyClassChain, Value: strings.TrimPrefix(selector, PrefixClassChain)}
	case strings.HasPrefix(selector, "/"), strings.HasPrefix(selector, "(/"):
		return Strategy{Using: StrategyXPath, Value: selector}
	case strings.HasPrefix(selector, "id="):
		return Strategy{Using: StrategyID, Value: strings.TrimPrefix(selector, "id=")}
	default:
		return Strategy{Using: StrategyID, Value: selector}
	}
}
