// Package patterns provides a centralized, high-performance pattern registry
// for scam detection and intelligence extraction. All regex patterns are
// compiled once at package init and shared across all callers.
//
// Design principles:
// - COMPILE ONCE: All patterns compiled at init, not per-request
// - DRY: Single source of truth for extraction and detection patterns
// - CATEGORIZED: Patterns organized by intelligence category for targeted scans
// - EXTENSIBLE: Easy to add new patterns without modifying caller code
package patterns

import (
	"regexp"
	"strings"
	"sync"
)

// Category represents an extraction or detection pattern category
type Category string

const (
	// Intelligence extraction categories. The string values double as the
	// category names in the report payload, so they must stay stable.
	CategoryPhoneNumbers  Category = "phoneNumbers"
	CategoryUPIIDs        Category = "upiIds"
	CategoryPhishingLinks Category = "phishingLinks"
	CategoryBankAccounts  Category = "bankAccounts"
	CategoryEmails        Category = "emails"
	CategoryAmounts       Category = "amounts"
	CategoryOTPCodes      Category = "otpLikeCodes"

	// Rule-based detection category used when the ML ensemble is unusable
	CategoryScamRule Category = "scam_rule"
)

// EntityCategories lists the extraction categories in report order.
func EntityCategories() []Category {
	return []Category{
		CategoryPhoneNumbers,
		CategoryUPIIDs,
		CategoryPhishingLinks,
		CategoryBankAccounts,
		CategoryEmails,
		CategoryAmounts,
		CategoryOTPCodes,
	}
}

// Pattern holds a compiled regex with metadata
type Pattern struct {
	Name        string         // Human-readable name for logging
	Regex       *regexp.Regexp // Compiled regex (never nil after init)
	Category    Category       // Intelligence or detection category
	Description string         // What this pattern extracts or detects
}

// Registry holds all compiled patterns, organized by category
type Registry struct {
	mu         sync.RWMutex
	byCategory map[Category][]*Pattern
	all        []*Pattern
}

// global singleton - initialized once at package load
var (
	globalRegistry *Registry
	initOnce       sync.Once
)

// Get returns the global pattern registry (singleton)
// Thread-safe and guaranteed to be initialized
func Get() *Registry {
	initOnce.Do(func() {
		globalRegistry = newRegistry()
	})
	return globalRegistry
}

// newRegistry creates and populates the pattern registry
func newRegistry() *Registry {
	r := &Registry{
		byCategory: make(map[Category][]*Pattern),
		all:        make([]*Pattern, 0, 64),
	}

	r.registerPhonePatterns()
	r.registerUPIPatterns()
	r.registerBankPatterns()
	r.registerLinkPatterns()
	r.registerEmailPatterns()
	r.registerAmountPatterns()
	r.registerOTPPatterns()
	r.registerScamRulePatterns()

	return r
}

// register adds a pattern to the registry (internal use only)
func (r *Registry) register(name string, pattern string, category Category, description string) {
	compiled := regexp.MustCompile(pattern)
	p := &Pattern{
		Name:        name,
		Regex:       compiled,
		Category:    category,
		Description: description,
	}

	r.byCategory[category] = append(r.byCategory[category], p)
	r.all = append(r.all, p)
}

// GetByCategory returns all patterns for a specific category
// Returns empty slice if category not found (never nil)
func (r *Registry) GetByCategory(cat Category) []*Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if patterns, ok := r.byCategory[cat]; ok {
		return patterns
	}
	return []*Pattern{}
}

// MatchAny checks if text matches any pattern in the given categories
// Returns the first matching pattern or nil
// This is optimized for early exit on first match
func (r *Registry) MatchAny(text string, cats ...Category) *Pattern {
	for _, cat := range cats {
		for _, p := range r.GetByCategory(cat) {
			if p.Regex.MatchString(text) {
				return p
			}
		}
	}
	return nil
}

// CountMatching returns how many patterns in a category match the text.
func (r *Registry) CountMatching(text string, cat Category) int {
	count := 0
	for _, p := range r.GetByCategory(cat) {
		if p.Regex.MatchString(text) {
			count++
		}
	}
	return count
}

// ExtractAll runs every pattern in a category against the text and returns
// the union of matches. When a pattern carries a capture group, the first
// group is taken instead of the whole match. Matches shorter than minLen
// after trimming are discarded. The result is deduplicated, unsorted.
func (r *Registry) ExtractAll(text string, cat Category, minLen int) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, p := range r.GetByCategory(cat) {
		if p.Regex.NumSubexp() > 0 {
			for _, m := range p.Regex.FindAllStringSubmatch(text, -1) {
				addMatch(m[1], minLen, seen, &out)
			}
		} else {
			for _, m := range p.Regex.FindAllString(text, -1) {
				addMatch(m, minLen, seen, &out)
			}
		}
	}

	return out
}

func addMatch(m string, minLen int, seen map[string]struct{}, out *[]string) {
	trimmed := strings.TrimSpace(m)
	if len(trimmed) < minLen {
		return
	}
	if _, ok := seen[trimmed]; ok {
		return
	}
	seen[trimmed] = struct{}{}
	*out = append(*out, trimmed)
}

// TotalPatterns returns the total count of registered patterns
func (r *Registry) TotalPatterns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// CategoryCount returns the number of patterns in a category
func (r *Registry) CategoryCount(cat Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCategory[cat])
}
