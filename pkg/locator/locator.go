package locator

import (
	"fmt"
	"sort"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

// SelectorTable maps logical keys to selector strings for one platform.
type SelectorTable map[string]string

// Tables holds one SelectorTable per platform for a screen.
type Tables struct {
	Android SelectorTable `yaml:"android"`
	IOS     SelectorTable `yaml:"ios"`

	// Exclusive lists keys that intentionally exist on one platform only.
	Exclusive map[string]core.Platform `yaml:"-"`
}

// For returns the table of platform p.
func (t Tables) For(p core.Platform) SelectorTable {
	if p == core.PlatformIOS {
		return t.IOS
	}
	return t.Android
}

// Merge returns a copy of t with the entries of over replacing its own.
func (t Tables) Merge(over Tables) Tables {
	merged := Tables{
		Android:   copyTable(t.Android),
		IOS:       copyTable(t.IOS),
		Exclusive: make(map[string]core.Platform, len(t.Exclusive)),
	}
	for k, v := range t.Exclusive {
		merged.Exclusive[k] = v
	}
	for k, v := range over.Android {
		merged.Android[k] = v
	}
	for k, v := range over.IOS {
		merged.IOS[k] = v
	}
	for k, v := range over.Exclusive {
		merged.Exclusive[k] = v
	}
	return merged
}

// Asymmetric returns the keys present on one platform but not the other,
// excluding keys declared Exclusive to the platform that has them.
func (t Tables) Asymmetric() []string {
	var missing []string
	check := func(from, to SelectorTable, owner core.Platform) {
		for k := range from {
			if _, ok := to[k]; ok {
				continue
			}
			if p, ok := t.Exclusive[k]; ok && p == owner {
				continue
			}
			missing = append(missing, k)
		}
	}
	check(t.Android, t.IOS, core.PlatformAndroid)
	check(t.IOS, t.Android, core.PlatformIOS)
	sort.Strings(missing)
	return missing
}

func copyTable(src SelectorTable) SelectorTable {
	dst := make(SelectorTable, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Locator resolves logical keys against immutable per-platform tables.
type Locator struct {
	tables Tables
}

// New creates a Locator over a private copy of tables.
func New(tables Tables) *Locator {
	return &Locator{tables: Tables{}.Merge(tables)}
}

// Resolve returns the selector for key on platform p.
func (l *Locator) Resolve(key string, p core.Platform) (string, error) {
	selector, ok := l.tables.For(p)[key]
	if !ok || selector == "" {
		return "", core.ErrUnknownSelector.
			WithMessage(fmt.Sprintf("no %s selector for %q", p, key)).
			WithDetails(map[string]interface{}{"key": key, "platform": p.String()})
	}
	return selector, nil
}

// Keys returns the logical keys defined for platform p, sorted.
func (l *Locator) Keys(p core.Platform) []string {
	table := l.tables.For(p)
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tables returns a copy of the locator's tables.
func (l *Locator) Tables() Tables {
	return Tables{}.Merge(l.tables)
}
